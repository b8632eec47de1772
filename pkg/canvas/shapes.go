package canvas

import (
	"image"
)

// RectElement is a filled, optionally rounded and stroked rectangle. Scrims
// and CTA buttons are rectangles.
type RectElement struct {
	id     string
	role   Role
	bounds Bounds

	Fill        string  // hex
	Opacity     float64 // fill opacity
	Radius      float64
	Stroke      string // hex; empty for none
	StrokeWidth float64

	linkedTo string
}

// NewRect creates a rectangle.
func NewRect(role Role, b Bounds, fill string, opacity float64) *RectElement {
	return &RectElement{id: newID(), role: role, bounds: b, Fill: fill, Opacity: opacity}
}

func (r *RectElement) ID() string         { return r.id }
func (r *RectElement) Role() Role         { return r.role }
func (r *RectElement) Bounds() Bounds     { return r.bounds }
func (r *RectElement) SetBounds(b Bounds) { r.bounds = b }

// LinkedTo returns the id of the text element this rectangle follows.
func (r *RectElement) LinkedTo() string { return r.linkedTo }

// Position implements Positionable.
func (r *RectElement) Position() (float64, float64) { return r.bounds.X, r.bounds.Y }

// MoveTo implements Positionable.
func (r *RectElement) MoveTo(x, y float64) { r.bounds.X, r.bounds.Y = x, y }

// ImageElement is a raster placed at a position and scale.
type ImageElement struct {
	id     string
	role   Role
	img    image.Image
	x, y   float64
	sx, sy float64
}

// NewImage creates an image element at the origin with unit scale.
func NewImage(role Role, img image.Image) *ImageElement {
	return &ImageElement{id: newID(), role: role, img: img, sx: 1, sy: 1}
}

func (i *ImageElement) ID() string         { return i.id }
func (i *ImageElement) Role() Role         { return i.role }
func (i *ImageElement) Image() image.Image { return i.img }

// Bounds returns the scaled image rectangle.
func (i *ImageElement) Bounds() Bounds {
	b := i.img.Bounds()
	return Bounds{X: i.x, Y: i.y, W: float64(b.Dx()) * i.sx, H: float64(b.Dy()) * i.sy}
}

// Position implements Positionable.
func (i *ImageElement) Position() (float64, float64) { return i.x, i.y }

// MoveTo implements Positionable.
func (i *ImageElement) MoveTo(x, y float64) { i.x, i.y = x, y }

// Scale implements Scalable.
func (i *ImageElement) Scale() (float64, float64) { return i.sx, i.sy }

// ScaleTo implements Scalable.
func (i *ImageElement) ScaleTo(sx, sy float64) { i.sx, i.sy = sx, sy }

var (
	_ Positionable = (*RectElement)(nil)
	_ Positionable = (*ImageElement)(nil)
	_ Scalable     = (*ImageElement)(nil)
)
