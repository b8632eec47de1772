package placement

import (
	"math"

	"github.com/matzehuels/adcanvas/pkg/ad"
)

// Band is the vertical third of the frame a zone belongs to.
type Band string

const (
	BandTop    Band = "top"
	BandMiddle Band = "middle"
	BandBottom Band = "bottom"
)

// Rect is a rectangle in fractional frame coordinates.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Right returns the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Valid reports whether r lies inside the unit square with positive size.
func (r Rect) Valid() bool {
	const eps = 1e-9
	return r.X >= 0 && r.Y >= 0 && r.W > 0 && r.H > 0 &&
		r.Right() <= 1+eps && r.Bottom() <= 1+eps
}

// minExtent keeps clamped rectangles from collapsing to zero size.
const minExtent = 0.01

// Clamp moves and shrinks r until it is valid.
func (r Rect) Clamp() Rect {
	r.W = clamp(r.W, minExtent, 1)
	r.H = clamp(r.H, minExtent, 1)
	r.X = clamp(r.X, 0, 1-r.W)
	r.Y = clamp(r.Y, 0, 1-r.H)
	return r
}

// Pixels converts r to pixel bounds on a w×h surface: floor for the left
// and top edges, ceil for the right and bottom edges, clamped to the surface.
func (r Rect) Pixels(w, h int) (x0, y0, x1, y1 int) {
	x0 = clampInt(int(math.Floor(r.X*float64(w))), 0, w)
	y0 = clampInt(int(math.Floor(r.Y*float64(h))), 0, h)
	x1 = clampInt(int(math.Ceil(r.Right()*float64(w))), 0, w)
	y1 = clampInt(int(math.Ceil(r.Bottom()*float64(h))), 0, h)
	return
}

// ZoneSpec is a named candidate region for text.
type ZoneSpec struct {
	Name  string   `json:"name"`
	Rect  Rect     `json:"rect"`
	Band  Band     `json:"band"`
	Align ad.Align `json:"align"`
}

// DefaultZones returns the standard eight-zone catalog. Order matters: on
// an exact score tie the earlier zone wins.
func DefaultZones() []ZoneSpec {
	return []ZoneSpec{
		{"top-left", Rect{0.06, 0.06, 0.52, 0.24}, BandTop, ad.AlignLeft},
		{"top-center", Rect{0.16, 0.06, 0.68, 0.24}, BandTop, ad.AlignCenter},
		{"top-right", Rect{0.42, 0.06, 0.52, 0.24}, BandTop, ad.AlignRight},
		{"middle-left", Rect{0.06, 0.36, 0.48, 0.26}, BandMiddle, ad.AlignLeft},
		{"middle-right", Rect{0.46, 0.36, 0.48, 0.26}, BandMiddle, ad.AlignRight},
		{"bottom-left", Rect{0.06, 0.74, 0.5, 0.18}, BandBottom, ad.AlignLeft},
		{"bottom-center", Rect{0.2, 0.74, 0.6, 0.18}, BandBottom, ad.AlignCenter},
		{"bottom-right", Rect{0.44, 0.74, 0.5, 0.18}, BandBottom, ad.AlignRight},
	}
}

// LaneGeometry describes the three stacked lanes used when the caller pins
// text to one side of the frame.
type LaneGeometry struct {
	Margin         float64 // distance from the frame edge
	HeadlineY      float64
	HeadlineWidth  float64
	HeadlineHeight float64
	MinGap         float64 // minimum headline/subhead gap
	GapRatio       float64 // gap as a share of headline height, if larger
	SubheadHeight  float64
	CTAY           float64
	CTAWidth       float64
	CTAHeight      float64
}

// DefaultLanes returns the standard lane geometry.
func DefaultLanes() LaneGeometry {
	return LaneGeometry{
		Margin:         0.06,
		HeadlineY:      0.08,
		HeadlineWidth:  0.56,
		HeadlineHeight: 0.22,
		MinGap:         0.03,
		GapRatio:       0.15,
		SubheadHeight:  0.14,
		CTAY:           0.78,
		CTAWidth:       0.36,
		CTAHeight:      0.12,
	}
}

// Zones returns the headline, subhead and CTA lanes for align. Auto is
// treated as left.
func (g LaneGeometry) Zones(align ad.Align) [3]ZoneSpec {
	if !align.Concrete() {
		align = ad.AlignLeft
	}
	head := Rect{X: g.anchor(align, g.HeadlineWidth), Y: g.HeadlineY, W: g.HeadlineWidth, H: g.HeadlineHeight}
	gap := max(g.MinGap, g.GapRatio*head.H)
	sub := Rect{X: head.X, Y: head.Bottom() + gap, W: head.W, H: g.SubheadHeight}
	cta := Rect{X: g.anchor(align, g.CTAWidth), Y: g.CTAY, W: g.CTAWidth, H: g.CTAHeight}

	return [3]ZoneSpec{
		{"lane-headline", head.Clamp(), BandTop, align},
		{"lane-subhead", sub.Clamp(), BandMiddle, align},
		{"lane-cta", cta.Clamp(), BandBottom, align},
	}
}

func (g LaneGeometry) anchor(align ad.Align, w float64) float64 {
	switch align {
	case ad.AlignRight:
		return 1 - g.Margin - w
	case ad.AlignCenter:
		return 0.5 - w/2
	default:
		return g.Margin
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return max(lo, min(hi, v))
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
