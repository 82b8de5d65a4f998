package renderer

import (
	"image"
	"image/color"
	"testing"
)

func TestTemplateCloneIsIndependent(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 4, 4))
	base.Set(1, 1, color.White)
	tmpl := NewTemplate(base)

	clone := tmpl.Clone()
	clone.Set(1, 1, color.Black)
	clone.Set(2, 2, color.White)

	if got := color.RGBAModel.Convert(base.At(1, 1)).(color.RGBA); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("template was mutated through clone: %v", got)
	}
	if tmpl.Bounds() != base.Bounds() {
		t.Fatalf("unexpected bounds %v", tmpl.Bounds())
	}
}

func TestCompositeOffsetsAndBlends(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.RGBA{255, 0, 0, 255})

	Composite(dst, src, 5, 6)
	if got := dst.RGBAAt(5, 6); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("expected red at offset, got %v", got)
	}
	if got := dst.RGBAAt(6, 6); got.A != 0 {
		t.Fatalf("transparent source pixel must not overwrite, got %v", got)
	}

	Composite(dst, image.NewRGBA(image.Rect(0, 0, 0, 0)), 0, 0)
	Composite(dst, nil, 0, 0)
}
