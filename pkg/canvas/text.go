package canvas

import (
	"github.com/matzehuels/adcanvas/pkg/ad"
	"github.com/matzehuels/adcanvas/pkg/fonts"
)

// GeometryEvent is the kind of change a text element went through.
type GeometryEvent int

const (
	EventMoved    GeometryEvent = iota // position changed
	EventScaled                        // scale factors changed
	EventModified                      // text content changed
	EventChanged                       // style or box width changed
)

func (e GeometryEvent) String() string {
	switch e {
	case EventMoved:
		return "moved"
	case EventScaled:
		return "scaled"
	case EventModified:
		return "modified"
	default:
		return "changed"
	}
}

// GeometryObserver receives every geometry change of a text element.
type GeometryObserver interface {
	GeometryChanged(t *TextElement, ev GeometryEvent)
}

// TextElement is a wrapped text box. The box has a nominal width used for
// wrapping; the drawn content may be narrower and is anchored inside the
// box by Align.
type TextElement struct {
	id   string
	role Role

	text   string
	style  fonts.Style
	color  string
	align  ad.Align
	x, y   float64
	width  float64
	sx, sy float64

	measurer fonts.Measurer
	layout   fonts.Layout
	observer GeometryObserver
}

// NewText creates a text element and lays it out.
func NewText(m fonts.Measurer, role Role, text string, style fonts.Style, width float64) *TextElement {
	t := &TextElement{
		id:       newID(),
		role:     role,
		text:     text,
		style:    style,
		align:    ad.AlignLeft,
		width:    width,
		sx:       1,
		sy:       1,
		measurer: m,
	}
	t.relayout()
	return t
}

func (t *TextElement) ID() string           { return t.id }
func (t *TextElement) Role() Role           { return t.role }
func (t *TextElement) Text() string         { return t.text }
func (t *TextElement) Style() fonts.Style   { return t.style }
func (t *TextElement) Color() string        { return t.color }
func (t *TextElement) Align() ad.Align      { return t.align }
func (t *TextElement) Width() float64       { return t.width }
func (t *TextElement) Layout() fonts.Layout { return t.layout }

// SetColor sets the fill color. Color does not affect geometry.
func (t *TextElement) SetColor(hex string) { t.color = hex }

// SetAlign sets the horizontal anchor of the content inside the box.
func (t *TextElement) SetAlign(a ad.Align) {
	if !a.Concrete() {
		a = ad.AlignLeft
	}
	t.align = a
	t.notify(EventChanged)
}

// Observe makes o the only observer of t. Passing nil detaches.
func (t *TextElement) Observe(o GeometryObserver) { t.observer = o }

// Observer returns the current observer.
func (t *TextElement) Observer() GeometryObserver { return t.observer }

// Position implements Positionable.
func (t *TextElement) Position() (float64, float64) { return t.x, t.y }

// MoveTo implements Positionable.
func (t *TextElement) MoveTo(x, y float64) {
	t.x, t.y = x, y
	t.notify(EventMoved)
}

// Scale implements Scalable.
func (t *TextElement) Scale() (float64, float64) { return t.sx, t.sy }

// ScaleTo implements Scalable.
func (t *TextElement) ScaleTo(sx, sy float64) {
	t.sx, t.sy = sx, sy
	t.notify(EventScaled)
}

// SetText replaces the content and re-wraps it.
func (t *TextElement) SetText(s string) {
	t.text = s
	t.relayout()
	t.notify(EventModified)
}

// SetFontSize changes the font size and re-wraps.
func (t *TextElement) SetFontSize(size float64) {
	t.style.Size = size
	t.relayout()
	t.notify(EventChanged)
}

// SetWidth changes the wrap width of the box and re-wraps.
func (t *TextElement) SetWidth(w float64) {
	t.width = w
	t.relayout()
	t.notify(EventChanged)
}

// Bounds returns the scaled box.
func (t *TextElement) Bounds() Bounds {
	return Bounds{X: t.x, Y: t.y, W: t.width * t.sx, H: t.layout.Height * t.sy}
}

// ContentBounds returns the scaled rectangle the glyphs occupy, anchored
// inside the box by the alignment.
func (t *TextElement) ContentBounds() Bounds {
	box := t.Bounds()
	w := t.layout.Width * t.sx
	x := box.X
	switch t.align {
	case ad.AlignCenter:
		x += (box.W - w) / 2
	case ad.AlignRight:
		x += box.W - w
	}
	return Bounds{X: x, Y: box.Y, W: w, H: box.H}
}

func (t *TextElement) relayout() {
	t.layout = t.measurer.Layout(t.text, t.style, t.width)
}

func (t *TextElement) notify(ev GeometryEvent) {
	if t.observer != nil {
		t.observer.GeometryChanged(t, ev)
	}
}

var (
	_ Positionable = (*TextElement)(nil)
	_ Scalable     = (*TextElement)(nil)
)
