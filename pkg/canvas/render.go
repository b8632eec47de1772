package canvas

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/adcanvas/pkg/ad"
	"github.com/matzehuels/adcanvas/pkg/color"
	"github.com/matzehuels/adcanvas/pkg/fonts"
)

// Renderable elements can draw themselves.
type Renderable interface {
	Render(dc *gg.Context, lib *fonts.Library) error
}

// Render rasterizes the scene back to front. Elements that are not
// Renderable are skipped. A nil lib uses fonts.Default().
func Render(c *Canvas, lib *fonts.Library) (image.Image, error) {
	if lib == nil {
		lib = fonts.Default()
	}
	dc := gg.NewContext(c.Width(), c.Height())
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for _, el := range c.Elements() {
		r, ok := el.(Renderable)
		if !ok {
			continue
		}
		if err := r.Render(dc, lib); err != nil {
			return nil, fmt.Errorf("render %s: %w", el.Role(), err)
		}
	}
	return dc.Image(), nil
}

// RenderPNG rasterizes the scene and writes it as PNG.
func RenderPNG(c *Canvas, lib *fonts.Library, w io.Writer) error {
	img, err := Render(c, lib)
	if err != nil {
		return err
	}
	return imaging.Encode(w, img, imaging.PNG)
}

// Render implements Renderable.
func (i *ImageElement) Render(dc *gg.Context, _ *fonts.Library) error {
	b := i.Bounds()
	w, h := int(math.Round(b.W)), int(math.Round(b.H))
	if w <= 0 || h <= 0 {
		return nil
	}
	scaled := imaging.Resize(i.img, w, h, imaging.Lanczos)
	dc.DrawImage(scaled, int(math.Round(b.X)), int(math.Round(b.Y)))
	return nil
}

// Render implements Renderable.
func (r *RectElement) Render(dc *gg.Context, _ *fonts.Library) error {
	path := func() {
		b := r.bounds
		if r.Radius > 0 {
			dc.DrawRoundedRectangle(b.X, b.Y, b.W, b.H, r.Radius)
		} else {
			dc.DrawRectangle(b.X, b.Y, b.W, b.H)
		}
	}
	if r.Fill != "" && r.Opacity > 0 {
		c, _ := color.ParseHex(r.Fill)
		cr, cg, cb, _ := c.Floats()
		dc.SetRGBA(cr, cg, cb, r.Opacity)
		path()
		dc.Fill()
	}
	if r.Stroke != "" && r.StrokeWidth > 0 {
		c, _ := color.ParseHex(r.Stroke)
		cr, cg, cb, _ := c.Floats()
		dc.SetRGBA(cr, cg, cb, 1)
		dc.SetLineWidth(r.StrokeWidth)
		path()
		dc.Stroke()
	}
	return nil
}

// Render implements Renderable.
func (t *TextElement) Render(dc *gg.Context, lib *fonts.Library) error {
	face, err := lib.Face(t.style.Font, t.style.Size)
	if err != nil {
		return err
	}
	defer face.Close()

	c := color.HexOr(t.color, color.DarkText)
	cr, cg, cb, _ := c.Floats()

	dc.Push()
	defer dc.Pop()
	dc.SetFontFace(face)
	dc.SetRGBA(cr, cg, cb, 1)
	dc.Translate(t.x, t.y)
	dc.Scale(t.sx, t.sy)

	ascent := float64(face.Metrics().Ascent) / 64
	advance := t.style.LineAdvance()
	for i, line := range t.layout.Lines {
		lw, _ := dc.MeasureString(line)
		x := 0.0
		switch t.align {
		case ad.AlignCenter:
			x = (t.width - lw) / 2
		case ad.AlignRight:
			x = t.width - lw
		}
		dc.DrawString(line, x, float64(i)*advance+ascent)
	}
	return nil
}

var (
	_ Renderable = (*ImageElement)(nil)
	_ Renderable = (*RectElement)(nil)
	_ Renderable = (*TextElement)(nil)
)
