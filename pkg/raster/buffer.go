// Package raster holds the low-resolution pixel snapshot the placement
// analysis runs on, and the loaders that turn an image source (URL, inline
// base64, file) into a decoded image.
package raster

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
)

// DefaultSampleWidth bounds analysis cost: images are downsampled to this
// width (preserving aspect ratio) before zone measurement.
const DefaultSampleWidth = 420

// PixelBuffer is an immutable RGBA snapshot. Pix holds Width*Height*4 bytes
// in row-major RGBA order.
type PixelBuffer struct {
	width  int
	height int
	pix    []byte
}

// NewPixelBuffer wraps a flat RGBA slice. The slice is copied.
func NewPixelBuffer(width, height int, pix []byte) (*PixelBuffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid buffer size %dx%d", width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("pixel data length %d does not match %dx%d RGBA", len(pix), width, height)
	}
	return &PixelBuffer{width: width, height: height, pix: append([]byte(nil), pix...)}, nil
}

// Width returns the buffer width in pixels.
func (b *PixelBuffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *PixelBuffer) Height() int { return b.height }

// RGB returns the color channels of the pixel at (x, y). Out-of-range
// coordinates return black.
func (b *PixelBuffer) RGB(x, y int) (r, g, bl uint8) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0, 0, 0
	}
	i := (y*b.width + x) * 4
	return b.pix[i], b.pix[i+1], b.pix[i+2]
}

// Sample downsamples img to the given width (aspect preserved) and returns
// the result as a PixelBuffer. Images narrower than width are not upscaled.
// A width <= 0 uses DefaultSampleWidth.
func Sample(img image.Image, width int) *PixelBuffer {
	if width <= 0 {
		width = DefaultSampleWidth
	}
	bounds := img.Bounds()
	var nrgba *image.NRGBA
	if bounds.Dx() > width {
		nrgba = imaging.Resize(img, width, 0, imaging.Box)
	} else {
		nrgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	}
	return fromNRGBA(nrgba)
}

func fromNRGBA(img *image.NRGBA) *PixelBuffer {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		copy(pix[y*w*4:], row)
	}
	return &PixelBuffer{width: w, height: h, pix: pix}
}
