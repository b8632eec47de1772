package canvas

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"testing"

	"github.com/matzehuels/adcanvas/pkg/ad"
	"github.com/matzehuels/adcanvas/pkg/fonts"
)

var approx = fonts.ApproxMeasurer{CharWidth: 0.5}

func newText(text string, width float64) *TextElement {
	return NewText(approx, RoleHeadline, text, fonts.Style{Size: 10, LineHeight: 1}, width)
}

type recorder struct{ events []GeometryEvent }

func (r *recorder) GeometryChanged(_ *TextElement, ev GeometryEvent) {
	r.events = append(r.events, ev)
}

func TestTextEvents(t *testing.T) {
	txt := newText("hello world", 200)
	rec := &recorder{}
	txt.Observe(rec)

	txt.MoveTo(10, 20)
	txt.ScaleTo(2, 2)
	txt.SetText("bye")
	txt.SetFontSize(12)
	txt.SetWidth(100)

	want := []GeometryEvent{EventMoved, EventScaled, EventModified, EventChanged, EventChanged}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("events[%d] = %v, want %v", i, rec.events[i], want[i])
		}
	}
}

func TestTextContentBounds(t *testing.T) {
	tests := []struct {
		align ad.Align
		wantX float64
	}{
		{ad.AlignLeft, 10},
		{ad.AlignCenter, 10 + (100-25)/2.0},
		{ad.AlignRight, 10 + 100 - 25},
	}

	for _, tt := range tests {
		t.Run(string(tt.align), func(t *testing.T) {
			txt := newText("hello", 100) // 5 runes × 10 × 0.5 = 25
			txt.MoveTo(10, 5)
			txt.SetAlign(tt.align)

			b := txt.ContentBounds()
			if b.X != tt.wantX || b.W != 25 || b.H != 10 || b.Y != 5 {
				t.Errorf("ContentBounds() = %+v, want x=%v w=25 h=10 y=5", b, tt.wantX)
			}
		})
	}
}

func TestBackdropLinkSyncsOnEdits(t *testing.T) {
	c := New(400, 400)
	txt := newText("hello", 200)
	txt.MoveTo(50, 60)
	rect := NewRect(RoleScrim, Bounds{}, "#141414", 0.4)
	c.Add(rect, txt)

	link := Link(c, txt, rect, 4, 2)
	if txt.Observer() != link {
		t.Fatal("Link() did not register as observer")
	}
	if got, want := rect.Bounds(), (Bounds{X: 46, Y: 58, W: 33, H: 14}); got != want {
		t.Fatalf("initial backdrop = %+v, want %+v", got, want)
	}
	if rect.LinkedTo() != txt.ID() {
		t.Errorf("LinkedTo() = %s, want %s", rect.LinkedTo(), txt.ID())
	}

	before := c.RenderCount()
	txt.SetText("hello there") // 11 runes → 55px
	if got := rect.Bounds().W; got != 63 {
		t.Errorf("after SetText width = %v, want 63", got)
	}

	txt.MoveTo(100, 100)
	if got := rect.Bounds(); got.X != 96 || got.Y != 98 {
		t.Errorf("after MoveTo backdrop = %+v, want x=96 y=98", got)
	}

	txt.ScaleTo(2, 2)
	if got := rect.Bounds(); got.W != 118 || got.H != 24 {
		t.Errorf("after ScaleTo backdrop = %+v, want w=118 h=24", got)
	}

	if got := c.RenderCount() - before; got != 3 {
		t.Errorf("render requests = %d, want 3", got)
	}
}

func TestBackdropLinkPillAndMinWidth(t *testing.T) {
	c := New(200, 200)
	txt := newText("Go", 100)
	txt.SetAlign(ad.AlignRight)
	rect := NewRect(RoleCTAChrome, Bounds{}, "#FF6600", 1)

	Link(c, txt, rect, 5, 5, AsPill(), WithMinWidth(60))
	b := rect.Bounds()
	if b.W != 60 {
		t.Errorf("backdrop width = %v, want 60", b.W)
	}
	if b.Right() != txt.ContentBounds().Right()+5 {
		t.Errorf("right-aligned backdrop right = %v, want %v", b.Right(), txt.ContentBounds().Right()+5)
	}
	if rect.Radius != b.H/2 {
		t.Errorf("Radius = %v, want %v", rect.Radius, b.H/2)
	}
}

func TestCanvasClearAndFind(t *testing.T) {
	c := New(10, 10)
	c.Add(NewRect(RoleScrim, Bounds{W: 1, H: 1}, "#000000", 0.5), newText("x", 10))
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Find(RoleHeadline); !ok {
		t.Error("Find(headline) = false")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	if _, ok := c.Find(RoleHeadline); ok {
		t.Error("Find(headline) after Clear = true")
	}
}

func TestMarshalLayers(t *testing.T) {
	c := New(100, 50)
	img := NewImage(RoleBackground, image.NewNRGBA(image.Rect(0, 0, 10, 5)))
	img.ScaleTo(10, 10)
	txt := newText("hi", 80)
	txt.SetColor("#F8F8F4")
	rect := NewRect(RoleScrim, Bounds{}, "#141414", 0.3)
	c.Add(img, rect, txt)
	Link(c, txt, rect, 2, 2)

	data, err := MarshalLayers(c)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Width  int     `json:"width"`
		Layers []Layer `json:"layers"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Width != 100 || len(doc.Layers) != 3 {
		t.Fatalf("decoded width=%d layers=%d, want 100 and 3", doc.Width, len(doc.Layers))
	}
	order := []Role{RoleBackground, RoleScrim, RoleHeadline}
	for i, l := range doc.Layers {
		if l.Role != order[i] {
			t.Errorf("layers[%d].Role = %s, want %s", i, l.Role, order[i])
		}
	}
	if doc.Layers[0].W != 100 {
		t.Errorf("background width = %v, want 100", doc.Layers[0].W)
	}
	if doc.Layers[1].LinkedTo != txt.ID() {
		t.Errorf("scrim linked_to = %q, want %q", doc.Layers[1].LinkedTo, txt.ID())
	}
	if doc.Layers[2].Color != "#F8F8F4" || doc.Layers[2].Kind != KindText {
		t.Errorf("text layer = %+v", doc.Layers[2])
	}
}

func TestRenderPNG(t *testing.T) {
	lib := fonts.NewLibrary()
	m := fonts.NewFaceMeasurer(lib)

	c := New(120, 80)
	bg := image.NewNRGBA(image.Rect(0, 0, 60, 40))
	for i := 3; i < len(bg.Pix); i += 4 {
		bg.Pix[i] = 255 // opaque black
	}
	img := NewImage(RoleBackground, bg)
	img.ScaleTo(2, 2)
	txt := NewText(m, RoleHeadline, "Hello", fonts.Style{Font: fonts.Bold, Size: 20}, 100)
	txt.SetColor("#F8F8F4")
	txt.MoveTo(10, 10)
	scrim := NewRect(RoleScrim, Bounds{}, "#141414", 0.5)
	c.Add(img, scrim, txt)
	Link(c, txt, scrim, 4, 4, AsPill())

	var buf bytes.Buffer
	if err := RenderPNG(c, lib, &buf); err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}
	out, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode rendered PNG: %v", err)
	}
	if out.Bounds().Dx() != 120 || out.Bounds().Dy() != 80 {
		t.Errorf("rendered size = %v, want 120x80", out.Bounds())
	}

	// Light text on a black background must leave bright pixels.
	bright := false
	for y := 10; y < 40 && !bright; y++ {
		for x := 10; x < 110; x++ {
			r, _, _, _ := out.At(x, y).RGBA()
			if r > 0xC000 {
				bright = true
				break
			}
		}
	}
	if !bright {
		t.Error("rendered text left no light pixels")
	}
}
