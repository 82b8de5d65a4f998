package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/rs/zerolog"
	"github.com/tdewolff/canvas"
	"golang.org/x/image/draw"

	"github.com/ByLCY/slidegen/binding"
	"github.com/ByLCY/slidegen/config"
	"github.com/ByLCY/slidegen/layout"
	"github.com/ByLCY/slidegen/renderer"
	"github.com/ByLCY/slidegen/song"
)

// StyleClassic is the only built-in style name.
const StyleClassic = "classic"

// NewStyle returns the style registered under name.
func NewStyle(name string, r *Renderer, cfg *config.Config, logger zerolog.Logger) (renderer.Style, error) {
	switch name {
	case "", StyleClassic:
		return NewClassic(r, cfg, logger), nil
	default:
		return nil, fmt.Errorf("未知的幻灯片风格 %q", name)
	}
}

// Classic 是默认风格：左上角带三角收尾的标题栏，居中的歌词区，
// 左侧段落编号，右下角的结构条与续页箭头。
type Classic struct {
	r       *Renderer
	cfg     *config.Config
	logger  zerolog.Logger
	refrain string

	background color.RGBA
	foreground color.RGBA
	text       color.RGBA
	title      color.RGBA
	arrow      *image.RGBA
}

var _ renderer.Style = (*Classic)(nil)

// NewClassic prepares the classic style. The arrow is rasterized once and only read afterwards.
func NewClassic(r *Renderer, cfg *config.Config, logger zerolog.Logger) *Classic {
	refrain := cfg.Song.Refrain
	if refrain == "" {
		refrain = "R"
	}
	c := &Classic{
		r:          r,
		cfg:        cfg,
		logger:     logger.With().Str("style", StyleClassic).Logger(),
		refrain:    refrain,
		background: ParseColor(cfg.Canvas.Background),
		foreground: ParseColor(cfg.Canvas.Foreground),
		text:       ParseColor(cfg.Canvas.TextColor),
		title:      ParseColor(cfg.Title.Color),
	}
	h := cfg.Arrow.Height
	w := h * 3 / 2
	c.arrow = r.RasterizePath(w, h, arrowPath(float64(w), float64(h)), ParseColor(cfg.Arrow.Color))
	return c
}

// BuildTemplate 绘制背景与标题栏。标题只受宽度预算约束，放不下时只保留三角形并记录警告。
func (c *Classic) BuildTemplate(title string) (*renderer.Template, error) {
	cv, t := c.cfg.Canvas, c.cfg.Title
	base := image.NewRGBA(image.Rect(0, 0, cv.Width, cv.Height))
	draw.Draw(base, base.Bounds(), &image.Uniform{C: c.background}, image.Point{}, draw.Src)

	budget := cv.Width - t.PanelWidth - t.TriangleWidth - 2*t.Padding
	fitted := layout.EmptyFit()
	if budget > 0 {
		var err error
		fitted, err = layout.Fit(c.r, title, layout.Box{Width: budget},
			layout.Candidates(t.MaxSize, t.MinSize, t.Step),
			layout.TextStyle{Weight: layout.Bold, Color: c.title})
		if err != nil {
			return nil, fmt.Errorf("渲染标题失败: %w", err)
		}
	}

	bandWidth := 0
	if fitted.Empty() {
		c.logger.Warn().Str("title", title).Int("budget", budget).Msg("标题放不下，仅绘制三角形")
	} else {
		bandWidth = fitted.Image.Bounds().Dx() + 2*t.Padding
		band := image.Rect(0, t.Y, bandWidth, t.Y+t.Height)
		draw.Draw(base, band, &image.Uniform{C: c.foreground}, image.Point{}, draw.Src)
		textY := t.Y + (t.Height-fitted.Image.Bounds().Dy())/2
		renderer.Composite(base, fitted.Image, t.Padding, textY)
	}

	triangle := c.r.RasterizePath(t.TriangleWidth, t.Height,
		trianglePath(float64(t.TriangleWidth), float64(t.Height)), c.foreground)
	renderer.Composite(base, triangle, bandWidth, t.Y)

	return renderer.NewTemplate(base), nil
}

// RenderStartSlide 在模板上写出歌本名与作者署名。
func (c *Classic) RenderStartSlide(tmpl *renderer.Template, doc *song.Document) (image.Image, error) {
	m := c.cfg.Metadata
	pattern := m.SplitAuthor
	if doc.TextAuthor() == doc.MelodyAuthor() {
		pattern = m.SameAuthor
	}
	attributions := binding.Interpolate(pattern, doc.Fields())

	style := layout.TextStyle{Weight: layout.Regular, Size: float64(m.FontSize), Color: c.text}
	book, err := c.r.RasterizeText(doc.Book(), style)
	if err != nil {
		return nil, fmt.Errorf("渲染歌本名失败: %w", err)
	}
	authors, err := c.r.RasterizeText(attributions, style)
	if err != nil {
		return nil, fmt.Errorf("渲染作者署名失败: %w", err)
	}

	img := tmpl.Clone()
	renderer.Composite(img, layout.Trim(book), m.X, m.BookY)
	renderer.Composite(img, layout.Trim(authors), m.X, m.AttributionsY)
	return img, nil
}

// RenderSongSlide 绘制一张歌词页：适配后的歌词、段落编号（副歌不显示）、
// 续页箭头以及高亮当前段落的结构条。
func (c *Classic) RenderSongSlide(tmpl *renderer.Template, payload layout.Payload, structure []string) (image.Image, error) {
	b := c.cfg.Body
	fitted, err := layout.Fit(c.r, payload.Body(), layout.Box{Width: b.Width, Height: b.Height},
		layout.Candidates(b.MaxSize, b.MinSize, b.Step),
		layout.TextStyle{Weight: layout.Regular, Spacing: float64(b.InterlineSpacing), Color: c.text})
	if err != nil {
		return nil, fmt.Errorf("渲染段落 %s 失败: %w", payload.Label, err)
	}
	if fitted.Empty() {
		c.logger.Warn().Str("label", payload.Label).Int("part", payload.Part).Msg("歌词在最小字号下仍放不下，该页留空")
	}

	img := tmpl.Clone()
	if payload.Label != c.refrain && !fitted.Empty() {
		badge, err := c.r.RasterizeText(payload.Label+".", layout.TextStyle{
			Weight: layout.Regular, Size: float64(fitted.Size), Color: c.text,
		})
		if err != nil {
			return nil, fmt.Errorf("渲染段落编号失败: %w", err)
		}
		renderer.Composite(img, layout.Trim(badge), b.IndexX, b.IndexY)
	}
	renderer.Composite(img, fitted.Image, b.X, b.Y)

	if payload.Continues {
		renderer.Composite(img, c.arrow, c.cfg.Arrow.X, c.cfg.Arrow.Y)
	}

	info := c.cfg.Info
	if len(structure) > 0 {
		strip, err := c.r.RasterizeStrip(structure, payload.Index, float64(info.FontSize), float64(info.ItemWidth), c.text)
		if err != nil {
			return nil, fmt.Errorf("渲染结构条失败: %w", err)
		}
		renderer.Composite(img, layout.Trim(strip), info.X, info.Y)
	}
	return img, nil
}

// trianglePath 是标题栏右端的直角三角形：左边竖直，斜边从右上到左下。
func trianglePath(w, h float64) *canvas.Path {
	p := &canvas.Path{}
	p.MoveTo(w, 0)
	p.LineTo(0, 0)
	p.LineTo(0, h)
	p.Close()
	return p
}

// arrowPath 是朝右的箭头，杆宽为高度的五分之一，箭头部分占宽度的三分之一。
func arrowPath(w, h float64) *canvas.Path {
	shaft := h / 10
	neck := w * 2 / 3
	p := &canvas.Path{}
	p.MoveTo(0, h/2-shaft)
	p.LineTo(0, h/2+shaft)
	p.LineTo(neck, h/2+shaft)
	p.LineTo(neck, h)
	p.LineTo(w, h/2)
	p.LineTo(neck, 0)
	p.LineTo(neck, h/2-shaft)
	p.Close()
	return p
}
