package renderer

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/ByLCY/slidegen/layout"
	"github.com/ByLCY/slidegen/song"
)

// Style 是一种幻灯片视觉风格：每首歌构建一次模板，再基于模板渲染开始页与歌词页。
// 实现必须可以被多个 goroutine 同时调用，且相同输入输出相同像素。
type Style interface {
	BuildTemplate(title string) (*Template, error)
	RenderStartSlide(tmpl *Template, doc *song.Document) (image.Image, error)
	RenderSongSlide(tmpl *Template, payload layout.Payload, structure []string) (image.Image, error)
}

// Template 是一首歌所有幻灯片共用的背景图，创建后只读。
type Template struct {
	img *image.RGBA
}

// NewTemplate takes ownership of img; callers must not modify it afterwards.
func NewTemplate(img *image.RGBA) *Template {
	return &Template{img: img}
}

// Bounds returns the template size.
func (t *Template) Bounds() image.Rectangle { return t.img.Bounds() }

// Clone 返回模板的独立副本，渲染单张幻灯片时在副本上合成。
func (t *Template) Clone() *image.RGBA {
	out := image.NewRGBA(t.img.Bounds())
	copy(out.Pix, t.img.Pix)
	return out
}

// Composite draws src onto dst with its top-left corner at (x, y).
func Composite(dst *image.RGBA, src image.Image, x, y int) {
	if src == nil || src.Bounds().Empty() {
		return
	}
	b := src.Bounds()
	r := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	draw.Draw(dst, r, src, b.Min, draw.Over)
}
