package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/slidegen/fonts"
	"github.com/ByLCY/slidegen/layout"
)

// Renderer rasterizes text and shapes via github.com/tdewolff/canvas.
//
// 画布单位为毫米，并以 1 像素/毫米光栅化，所以所有坐标与字号都可以直接按像素理解。
// 字体族不在 goroutine 之间共享：每次调用从池中取出独占的一组。
type Renderer struct {
	regular []byte
	bold    []byte

	pool sync.Pool
}

var _ layout.Rasterizer = (*Renderer)(nil)

// Options configures the canvas renderer fonts, as "embed:<name>" or file paths.
type Options struct {
	RegularFont string
	BoldFont    string
}

type fontSet struct {
	regular *canvas.FontFamily
	bold    *canvas.FontFamily
}

// NewRenderer loads and validates both fonts. An empty reference falls back to
// the embedded Go fonts.
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.RegularFont == "" {
		opts.RegularFont = fonts.DefaultRegular
	}
	if opts.BoldFont == "" {
		opts.BoldFont = fonts.DefaultBold
	}
	regular, err := fonts.Load(opts.RegularFont)
	if err != nil {
		return nil, err
	}
	bold, err := fonts.Load(opts.BoldFont)
	if err != nil {
		return nil, err
	}

	r := &Renderer{regular: regular, bold: bold}
	set, err := r.newFontSet()
	if err != nil {
		return nil, err
	}
	r.pool.Put(set)
	return r, nil
}

func (r *Renderer) newFontSet() (*fontSet, error) {
	regular := canvas.NewFontFamily("slidegen-regular")
	if err := regular.LoadFont(r.regular, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载常规字体失败: %w", err)
	}
	bold := canvas.NewFontFamily("slidegen-bold")
	if err := bold.LoadFont(r.bold, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载粗体字体失败: %w", err)
	}
	return &fontSet{regular: regular, bold: bold}, nil
}

func (r *Renderer) acquire() (*fontSet, error) {
	if v := r.pool.Get(); v != nil {
		return v.(*fontSet), nil
	}
	return r.newFontSet()
}

func (r *Renderer) release(set *fontSet) { r.pool.Put(set) }

func (s *fontSet) face(weight layout.FontWeight, sizePx float64, col color.Color) *canvas.FontFace {
	if col == nil {
		col = color.Black
	}
	family := s.regular
	if weight == layout.Bold {
		family = s.bold
	}
	return family.Face(layout.PxToPt(sizePx), col, canvas.FontRegular, canvas.FontNormal)
}

// RasterizeText 实现 layout.Rasterizer：逐行绘制，行距为字体行高加 style.Spacing，
// 画布按文本实际宽高留出边距，避免被裁切。
func (r *Renderer) RasterizeText(content string, style layout.TextStyle) (*image.RGBA, error) {
	if style.Size <= 0 {
		return nil, fmt.Errorf("字号必须为正数，当前 %g", style.Size)
	}
	set, err := r.acquire()
	if err != nil {
		return nil, err
	}
	defer r.release(set)

	face := set.face(style.Weight, style.Size, style.Color)
	metrics := face.Metrics()
	step := metrics.LineHeight + style.Spacing

	lines := strings.Split(content, "\n")
	width := 0.0
	for _, line := range lines {
		width = math.Max(width, face.TextWidth(line))
	}
	pad := math.Ceil(style.Size/2) + 2
	c := canvas.New(math.Ceil(width+2*pad), math.Ceil(float64(len(lines))*step+2*pad))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		baseline := pad + float64(i)*step + metrics.Ascent
		ctx.DrawText(pad, baseline, canvas.NewTextLine(face, line, canvas.Left))
	}
	return rasterize(c), nil
}

// RasterizeStrip 将 labels 横向排成一行，每项间隔 itemWidth，第 current 项使用粗体。
func (r *Renderer) RasterizeStrip(labels []string, current int, sizePx, itemWidth float64, col color.Color) (*image.RGBA, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("字号必须为正数，当前 %g", sizePx)
	}
	set, err := r.acquire()
	if err != nil {
		return nil, err
	}
	defer r.release(set)

	regular := set.face(layout.Regular, sizePx, col)
	bold := set.face(layout.Bold, sizePx, col)
	metrics := regular.Metrics()

	width := 0.0
	for i, label := range labels {
		face := regular
		if i == current {
			face = bold
		}
		width = math.Max(width, float64(i)*itemWidth+face.TextWidth(label))
	}
	pad := math.Ceil(sizePx/2) + 2
	c := canvas.New(math.Ceil(width+2*pad), math.Ceil(metrics.LineHeight+2*pad))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	for i, label := range labels {
		face := regular
		if i == current {
			face = bold
		}
		ctx.DrawText(pad+float64(i)*itemWidth, pad+metrics.Ascent, canvas.NewTextLine(face, label, canvas.Left))
	}
	return rasterize(c), nil
}

// RasterizePath 在 width×height 的透明画布上填充 path。
func (r *Renderer) RasterizePath(width, height int, path *canvas.Path, fill color.Color) *image.RGBA {
	c := canvas.New(float64(width), float64(height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	ctx.SetFillColor(fill)
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(0, 0, path)
	return rasterize(c)
}

func rasterize(c *canvas.Canvas) *image.RGBA {
	return rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
}

// ParseColor converts "#rrggbb" style colours; config validation guarantees the format.
func ParseColor(hex string) color.RGBA {
	return canvas.Hex(hex)
}
