package loader

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"render-pipeline/gfx"
)

// LoadImage reads a PNG, JPEG, BMP, TIFF or WebP file into an RGBA8
// gfx.Image. Images larger than maxSize on either side are scaled down
// keeping their aspect; maxSize <= 0 keeps the source size.
func LoadImage(path string, maxSize int) (*gfx.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %q: %w", path, err)
	}
	defer f.Close()

	img, err := decodeImage(path, f, maxSize)
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", path, err)
	}
	return img, nil
}

// DecodeImage decodes an in-memory encoded image.
func DecodeImage(name string, data []byte, maxSize int) (*gfx.Image, error) {
	img, err := decodeImage(name, bytes.NewReader(data), maxSize)
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", name, err)
	}
	return img, nil
}

func decodeImage(name string, r io.Reader, maxSize int) (*gfx.Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return ToImage(name, src, maxSize), nil
}

// ToImage converts any image.Image to a tightly packed RGBA8 gfx.Image.
func ToImage(name string, src image.Image, maxSize int) *gfx.Image {
	sb := src.Bounds()
	w, h := fitSize(sb.Dx(), sb.Dy(), maxSize)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == sb.Dx() && h == sb.Dy() {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Src)
	} else {
		draw.BiLinear.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	}
	return &gfx.Image{Label: name, Width: w, Height: h, Pixels: dst.Pix}
}

func fitSize(w, h, maxSize int) (int, int) {
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return w, h
	}
	if w >= h {
		return maxSize, max(1, h*maxSize/w)
	}
	return max(1, w*maxSize/h), maxSize
}
