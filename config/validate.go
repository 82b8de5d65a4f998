package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ByLCY/slidegen/binding"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})$`)

// AttributionFields are the placeholders accepted in metadata.same_author and metadata.split_author.
var AttributionFields = []string{"title", "book", "text", "melody"}

// Formats lists the supported output encodings.
var Formats = []string{"jpeg", "png", "bmp", "tiff"}

// Validate reports every impossible value at once, joined under ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if !isFormat(c.Output.Format) {
		bad("output.format %q 不受支持（可选: %s）", c.Output.Format, strings.Join(Formats, ", "))
	}
	if c.Output.Extension == "" {
		bad("output.extension 不能为空")
	}
	if strings.ContainsAny(c.Output.BaseName, `/\`) {
		bad("output.base_name %q 不能包含路径分隔符", c.Output.BaseName)
	}
	if c.Output.Format == "jpeg" && (c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100) {
		bad("output.jpeg_quality 必须在 1..100 之间，当前 %d", c.Output.JPEGQuality)
	}

	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		bad("canvas 尺寸必须为正数，当前 %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	for key, val := range map[string]string{
		"canvas.background": c.Canvas.Background,
		"canvas.foreground": c.Canvas.Foreground,
		"canvas.text_color": c.Canvas.TextColor,
		"title.color":       c.Title.Color,
		"arrow.color":       c.Arrow.Color,
	} {
		if !hexColor.MatchString(val) {
			bad("%s %q 不是合法的十六进制颜色", key, val)
		}
	}

	checkSizes := func(name string, max, min, step int) {
		if min <= 0 || max < min {
			bad("%s 字号范围无效: max=%d min=%d", name, max, min)
		}
		if step <= 0 {
			bad("%s.step 必须为正数，当前 %d", name, step)
		}
	}
	checkSizes("title", c.Title.MaxSize, c.Title.MinSize, c.Title.Step)
	checkSizes("body", c.Body.MaxSize, c.Body.MinSize, c.Body.Step)

	if c.Title.Height <= 0 {
		bad("title.height 必须为正数")
	}
	if c.Title.Padding < 0 || c.Title.TriangleWidth < 0 || c.Title.PanelWidth < 0 {
		bad("title 的 padding/triangle_width/panel_width 不能为负数")
	}
	if c.Canvas.Width-c.Title.PanelWidth-c.Title.TriangleWidth <= 2*c.Title.Padding {
		bad("canvas.width 不足以容纳标题栏")
	}
	if c.Body.Width <= 0 || c.Body.Height <= 0 {
		bad("body 画布尺寸必须为正数，当前 %dx%d", c.Body.Width, c.Body.Height)
	}
	if c.Body.MaxLines < 1 {
		bad("body.max_lines 至少为 1，当前 %d", c.Body.MaxLines)
	}
	if c.Body.InterlineSpacing < 0 {
		bad("body.interline_spacing 不能为负数")
	}
	if c.Metadata.FontSize <= 0 || c.Info.FontSize <= 0 {
		bad("metadata.font_size 与 info_display.font_size 必须为正数")
	}
	for key, pattern := range map[string]string{
		"metadata.same_author":  c.Metadata.SameAuthor,
		"metadata.split_author": c.Metadata.SplitAuthor,
	} {
		for _, field := range binding.Placeholders(pattern) {
			if !contains(AttributionFields, field) {
				bad("%s 使用了未知字段 ${%s}（可选: %s）", key, field, strings.Join(AttributionFields, ", "))
			}
		}
	}
	if c.Arrow.Height <= 0 {
		bad("arrow.height 必须为正数")
	}
	if c.Song.Refrain == "" || strings.ContainsAny(c.Song.Refrain, ",- \t") {
		bad("song.refrain %q 无效", c.Song.Refrain)
	}
	if c.Render.Workers < 0 {
		bad("render.workers 不能为负数")
	}
	if c.Batch.MinSubdirs < 0 {
		bad("batch.min_subdirs 不能为负数")
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

func isFormat(f string) bool { return contains(Formats, f) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
