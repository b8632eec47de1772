package canvas

import (
	"encoding/json"

	"github.com/matzehuels/adcanvas/pkg/ad"
)

// Element kinds.
const (
	KindImage = "image"
	KindRect  = "rect"
	KindText  = "text"
)

// Layer is the exported record of one element, in the form clients and
// the layer panel consume.
type Layer struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Kind string `json:"kind"`
	Bounds

	Text     string   `json:"text,omitempty"`
	Lines    []string `json:"lines,omitempty"`
	Font     string   `json:"font,omitempty"`
	FontSize float64  `json:"font_size,omitempty"`
	Align    ad.Align `json:"align,omitempty"`
	Color    string   `json:"color,omitempty"`

	Fill        string  `json:"fill,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
	Radius      float64 `json:"radius,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
	LinkedTo    string  `json:"linked_to,omitempty"`

	ScaleX float64 `json:"scale_x,omitempty"`
	ScaleY float64 `json:"scale_y,omitempty"`
}

// Layer implements Element.
func (t *TextElement) Layer() Layer {
	return Layer{
		ID:       t.id,
		Role:     t.role,
		Kind:     KindText,
		Bounds:   t.ContentBounds(),
		Text:     t.text,
		Lines:    append([]string(nil), t.layout.Lines...),
		Font:     t.style.Font,
		FontSize: t.style.Size,
		Align:    t.align,
		Color:    t.color,
		ScaleX:   t.sx,
		ScaleY:   t.sy,
	}
}

// Layer implements Element.
func (r *RectElement) Layer() Layer {
	return Layer{
		ID:          r.id,
		Role:        r.role,
		Kind:        KindRect,
		Bounds:      r.bounds,
		Fill:        r.Fill,
		Opacity:     r.Opacity,
		Radius:      r.Radius,
		Stroke:      r.Stroke,
		StrokeWidth: r.StrokeWidth,
		LinkedTo:    r.linkedTo,
	}
}

// Layer implements Element.
func (i *ImageElement) Layer() Layer {
	return Layer{
		ID:     i.id,
		Role:   i.role,
		Kind:   KindImage,
		Bounds: i.Bounds(),
		ScaleX: i.sx,
		ScaleY: i.sy,
	}
}

// Layers returns the layer records back to front.
func (c *Canvas) Layers() []Layer {
	els := c.Elements()
	layers := make([]Layer, len(els))
	for i, el := range els {
		layers[i] = el.Layer()
	}
	return layers
}

// MarshalLayers encodes the canvas size and layers as indented JSON.
func MarshalLayers(c *Canvas) ([]byte, error) {
	return json.MarshalIndent(struct {
		Width  int     `json:"width"`
		Height int     `json:"height"`
		Layers []Layer `json:"layers"`
	}{c.Width(), c.Height(), c.Layers()}, "", "  ")
}
