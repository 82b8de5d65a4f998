package layout

import (
	"image"

	"golang.org/x/image/draw"
)

// Trim 裁掉位图四周完全透明的像素，返回原点为 (0,0) 的新位图。
// 全透明或空位图得到 0×0 的结果。
func Trim(img *image.RGBA) *image.RGBA {
	if img == nil {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Min.X, y)+4*b.Dx()]
		for x := 0; x < b.Dx(); x++ {
			if row[4*x+3] == 0 {
				continue
			}
			px := b.Min.X + x
			if px < minX {
				minX = px
			}
			if px > maxX {
				maxX = px
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < minX || maxY < minY {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	out := image.NewRGBA(image.Rect(0, 0, maxX-minX+1, maxY-minY+1))
	draw.Draw(out, out.Bounds(), img, image.Pt(minX, minY), draw.Src)
	return out
}
