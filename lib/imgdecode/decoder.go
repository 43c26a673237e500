// Package imgdecode turns image files into raw pixel rows for texture upload.
package imgdecode

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/urus/urus/lib/rendering"
)

// Decoder reads any registered image format. Gray images keep one channel,
// opaque colour formats (JPEG) three, and everything else is expanded to
// four non-premultiplied channels.
type Decoder struct {
	// TopDown keeps the file's row order instead of flipping the first
	// row to the bottom.
	TopDown bool
}

func (d *Decoder) Decode(path string) (*rendering.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", path, err)
	}
	return d.FromImage(src), nil
}

func (d *Decoder) FromImage(src image.Image) *rendering.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	var pix []byte
	var stride, channels int
	switch img := src.(type) {
	case *image.Gray:
		channels = 1
		pix, stride = img.Pix[img.PixOffset(bounds.Min.X, bounds.Min.Y):], img.Stride
	case *image.YCbCr, *image.CMYK:
		channels = 3
		rgba := toNRGBA(src)
		pix = make([]byte, w*h*3)
		for i, j := 0, 0; i < len(rgba.Pix); i, j = i+4, j+3 {
			copy(pix[j:j+3], rgba.Pix[i:i+3])
		}
		stride = w * 3
	default:
		channels = 4
		rgba := toNRGBA(src)
		pix, stride = rgba.Pix, rgba.Stride
	}

	out := &rendering.Image{
		Pix:      make([]byte, w*h*channels),
		Width:    w,
		Height:   h,
		Channels: channels,
	}
	row := w * channels
	for y := range h {
		dst := y
		if !d.TopDown {
			dst = h - 1 - y
		}
		copy(out.Pix[dst*row:(dst+1)*row], pix[y*stride:y*stride+row])
	}
	return out
}

func toNRGBA(src image.Image) *image.NRGBA {
	if img, ok := src.(*image.NRGBA); ok && img.Rect.Min == (image.Point{}) {
		return img
	}
	b := src.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)
	return img
}
