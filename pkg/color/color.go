// Package color provides the WCAG 2.0 luminance and contrast arithmetic used
// to pick legible text colors over generated imagery.
//
// All functions are pure and never fail: malformed input degrades to a safe
// default (black at zero opacity) instead of returning an error.
package color

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Readable text colors. Near-white and near-black rather than pure values
// so text sits softer on photographic backgrounds.
const (
	LightText = "#F8F8F4"
	DarkText  = "#141414"
)

// WCAG 2.0 sRGB linearization constants.
const (
	linearThreshold = 0.03928
	linearScale     = 12.92
	gammaOffset     = 0.055
	gammaScale      = 1.055
	gammaExponent   = 2.4
)

// linearTable caches the linearized value of every 8-bit channel level so
// the zone scanner does not call math.Pow per pixel.
var linearTable = func() [256]float64 {
	var t [256]float64
	for i := range t {
		t[i] = linearize(float64(i) / 255)
	}
	return t
}()

var (
	lightLum = Luminance(MustParseHex(LightText))
	darkLum  = Luminance(MustParseHex(DarkText))
)

// RGBA is an 8-bit color with a fractional alpha in [0,1].
type RGBA struct {
	R, G, B uint8
	A       float64
}

// Black is the fallback for malformed input.
var Black = RGBA{A: 0}

func linearize(c float64) float64 {
	if c <= linearThreshold {
		return c / linearScale
	}
	return math.Pow((c+gammaOffset)/gammaScale, gammaExponent)
}

// Linear returns the linearized value of an 8-bit channel level.
func Linear(c uint8) float64 { return linearTable[c] }

// RelativeLuminance returns the WCAG relative luminance of an sRGB color in [0,1].
func RelativeLuminance(r, g, b uint8) float64 {
	return 0.2126*linearTable[r] + 0.7152*linearTable[g] + 0.0722*linearTable[b]
}

// Luminance returns the relative luminance of c, ignoring alpha.
func Luminance(c RGBA) float64 { return RelativeLuminance(c.R, c.G, c.B) }

// ContrastRatio returns the WCAG contrast ratio between two luminances.
// The result lies in [1,21] and is symmetric in its arguments.
func ContrastRatio(l1, l2 float64) float64 {
	l1, l2 = clamp01(l1), clamp01(l2)
	hi, lo := max(l1, l2), min(l1, l2)
	return (hi + 0.05) / (lo + 0.05)
}

// ContrastHex returns the contrast ratio between two hex colors.
func ContrastHex(a, b string) float64 {
	ca, _ := ParseHex(a)
	cb, _ := ParseHex(b)
	return ContrastRatio(Luminance(ca), Luminance(cb))
}

// BestTextColor returns LightText or DarkText, whichever contrasts more
// against a background of the given luminance. Ties resolve to LightText.
func BestTextColor(bgLum float64) string {
	c, _ := BestTextColorWithContrast(bgLum)
	return c
}

// BestTextColorWithContrast is BestTextColor that also reports the winning ratio.
func BestTextColorWithContrast(bgLum float64) (string, float64) {
	return pickReadable(ContrastRatio(bgLum, lightLum), ContrastRatio(bgLum, darkLum))
}

func pickReadable(light, dark float64) (string, float64) {
	if dark > light {
		return DarkText, dark
	}
	return LightText, light
}

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa" (the leading '#' is
// optional). On malformed input it returns Black and false.
func ParseHex(s string) (RGBA, bool) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	alpha := 1.0
	switch len(h) {
	case 8:
		a, err := strconv.ParseUint(h[6:], 16, 8)
		if err != nil {
			return Black, false
		}
		alpha = float64(a) / 255
		h = h[:6]
	case 3, 6:
	default:
		return Black, false
	}
	c, err := colorful.Hex("#" + h)
	if err != nil {
		return Black, false
	}
	r, g, b := c.RGB255()
	return RGBA{R: r, G: g, B: b, A: alpha}, true
}

// MustParseHex is ParseHex for compile-time constants; it panics on bad input.
func MustParseHex(s string) RGBA {
	c, ok := ParseHex(s)
	if !ok {
		panic(fmt.Sprintf("color: invalid hex %q", s))
	}
	return c
}

// HexOr parses s and falls back to def when s is malformed or empty.
func HexOr(s, def string) RGBA {
	if c, ok := ParseHex(s); ok {
		return c
	}
	return MustParseHex(def)
}

// WithAlpha returns c with alpha clamped into [0,1].
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = clamp01(a)
	return c
}

// Hex formats c as "#RRGGBB", dropping alpha.
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// CSS formats c as an rgba() string.
func (c RGBA) CSS() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, strconv.FormatFloat(clamp01(c.A), 'f', -1, 64))
}

// Floats returns the channels as [0,1] floats, the form the rasterizer takes.
func (c RGBA) Floats() (r, g, b, a float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, clamp01(c.A)
}

// Mix blends a toward b by t in [0,1] in linear RGB and keeps a's alpha.
func Mix(a, b RGBA, t float64) RGBA {
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	t = clamp01(t)
	r1, g1, b1 := ca.LinearRgb()
	r2, g2, b2 := cb.LinearRgb()
	mixed := colorful.LinearRgb(r1+t*(r2-r1), g1+t*(g2-g1), b1+t*(b2-b1))
	r, g, bl := mixed.Clamped().RGB255()
	return RGBA{R: r, G: g, B: bl, A: a.A}
}

// Opposite returns the readable text color that is not c, used to pick a
// backdrop that contrasts with the text drawn on it.
func Opposite(textHex string) string {
	if strings.EqualFold(textHex, DarkText) {
		return LightText
	}
	return DarkText
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return max(0, min(1, v))
}
