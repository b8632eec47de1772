package canvas

import "github.com/matzehuels/adcanvas/pkg/ad"

// BackdropLink keeps a rectangle wrapped around a text element's content.
// It is the text element's observer: every move, scale or content change
// resizes the backdrop and asks the canvas to redraw.
type BackdropLink struct {
	canvas   *Canvas
	text     *TextElement
	backdrop *RectElement

	PadX, PadY float64
	// Pill keeps the corner radius at half the backdrop height.
	Pill bool
	// MinWidth keeps short CTA labels on a usable button.
	MinWidth float64
}

// LinkOption configures a BackdropLink.
type LinkOption func(*BackdropLink)

// AsPill rounds the backdrop into a pill.
func AsPill() LinkOption {
	return func(l *BackdropLink) { l.Pill = true }
}

// WithMinWidth sets the minimum backdrop width.
func WithMinWidth(w float64) LinkOption {
	return func(l *BackdropLink) { l.MinWidth = w }
}

// Link attaches backdrop to text and syncs it once.
func Link(c *Canvas, text *TextElement, backdrop *RectElement, padX, padY float64, opts ...LinkOption) *BackdropLink {
	l := &BackdropLink{canvas: c, text: text, backdrop: backdrop, PadX: padX, PadY: padY}
	for _, opt := range opts {
		opt(l)
	}
	text.Observe(l)
	backdrop.linkedTo = text.ID()
	l.Sync()
	return l
}

// Text returns the linked text element.
func (l *BackdropLink) Text() *TextElement { return l.text }

// Backdrop returns the linked rectangle.
func (l *BackdropLink) Backdrop() *RectElement { return l.backdrop }

// GeometryChanged implements GeometryObserver.
func (l *BackdropLink) GeometryChanged(_ *TextElement, _ GeometryEvent) {
	l.Sync()
	if l.canvas != nil {
		l.canvas.RequestRender()
	}
}

// Sync recomputes the backdrop from the current text geometry.
func (l *BackdropLink) Sync() {
	c := l.text.ContentBounds()
	b := Bounds{
		X: c.X - l.PadX,
		Y: c.Y - l.PadY,
		W: c.W + 2*l.PadX,
		H: c.H + 2*l.PadY,
	}
	if b.W < l.MinWidth {
		grow := l.MinWidth - b.W
		switch l.text.Align() {
		case ad.AlignCenter:
			b.X -= grow / 2
		case ad.AlignRight:
			b.X -= grow
		}
		b.W = l.MinWidth
	}
	l.backdrop.SetBounds(b)
	if l.Pill {
		l.backdrop.Radius = b.H / 2
	}
}

var _ GeometryObserver = (*BackdropLink)(nil)
