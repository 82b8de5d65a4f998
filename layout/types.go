package layout

// 该文件定义排版阶段共用的类型：字体粗细、文本样式、目标区域与分页结果。

import (
	"image"
	"image/color"
)

// FontWeight 选择常规或粗体字体。
type FontWeight int

const (
	Regular FontWeight = iota
	Bold
)

func (w FontWeight) String() string {
	if w == Bold {
		return "bold"
	}
	return "regular"
}

// TextStyle 描述一次文本光栅化所需的参数，字号与行距单位均为像素。
type TextStyle struct {
	Weight  FontWeight
	Size    float64
	Spacing float64 // 行与行之间额外的间距
	Color   color.Color
}

// Rasterizer 将多行文本绘制到透明背景上，返回的位图四周允许留白，由 Trim 负责裁掉。
// 相同输入必须得到相同像素。
type Rasterizer interface {
	RasterizeText(content string, style TextStyle) (*image.RGBA, error)
}

// Box 是文本必须放入的矩形；非正值表示该方向不受限。
type Box struct {
	Width  int
	Height int
}

// Fits reports whether a bitmap of the given bounds fits inside the box.
func (b Box) Fits(r image.Rectangle) bool {
	if b.Width > 0 && r.Dx() > b.Width {
		return false
	}
	if b.Height > 0 && r.Dy() > b.Height {
		return false
	}
	return true
}

// Fitted 是画布适配的结果。Size 为 0 表示没有任何候选字号放得下（退化结果）。
type Fitted struct {
	Image *image.RGBA
	Size  int
}

// Empty reports the degenerate "nothing fits" result.
func (f Fitted) Empty() bool { return f.Size == 0 }

// Payload 是一张幻灯片要绘制的段落文本。
type Payload struct {
	Index     int    `json:"index"`     // 在展开后结构中的位置
	Label     string `json:"label"`     // 段落标签，例如 "1" 或 "R"
	Text      string `json:"text"`      // 原样保留换行符，依次拼接可还原整段
	Continues bool   `json:"continues"` // 同一段落后面还有下一张
	Part      int    `json:"part"`      // 从 1 开始
	Parts     int    `json:"parts"`
}

// Body returns the text to paint, without the trailing line break that joins it
// to the next payload of the same section.
func (p Payload) Body() string {
	if len(p.Text) > 0 && p.Text[len(p.Text)-1] == '\n' {
		return p.Text[:len(p.Text)-1]
	}
	return p.Text
}
