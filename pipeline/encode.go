package pipeline

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Encoder writes one image in a fixed format.
type Encoder func(w io.Writer, img image.Image) error

// NewEncoder returns the encoder for format ("jpeg", "png", "bmp" or "tiff").
func NewEncoder(format string, jpegQuality int) (Encoder, error) {
	switch format {
	case "jpeg", "jpg":
		opts := &jpeg.Options{Quality: jpegQuality}
		return func(w io.Writer, img image.Image) error { return jpeg.Encode(w, img, opts) }, nil
	case "png":
		return png.Encode, nil
	case "bmp":
		return bmp.Encode, nil
	case "tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", format)
	}
}
