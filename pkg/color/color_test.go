package color

import (
	"math"
	"testing"
)

func approx(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestContrastBounds(t *testing.T) {
	if got := ContrastHex("#000000", "#ffffff"); !approx(got, 21, 1e-9) {
		t.Errorf("ContrastHex(black, white) = %v, want 21", got)
	}
	for _, c := range []string{"#000000", "#ffffff", "#808080", "#F8F8F4", "#1e90ff"} {
		if got := ContrastHex(c, c); !approx(got, 1, 1e-12) {
			t.Errorf("ContrastHex(%s, %s) = %v, want 1", c, c, got)
		}
	}
}

func TestContrastSymmetry(t *testing.T) {
	colors := []string{"#000000", "#ffffff", "#ff0000", "#00ff00", "#0000ff", "#777777", "#F8F8F4", "#141414", "#c0ffee"}
	for _, a := range colors {
		for _, b := range colors {
			if ab, ba := ContrastHex(a, b), ContrastHex(b, a); ab != ba {
				t.Errorf("ContrastHex(%s,%s)=%v != ContrastHex(%s,%s)=%v", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestContrastRatioRange(t *testing.T) {
	for _, l1 := range []float64{-1, 0, 0.2, 0.5, 1, 2} {
		for _, l2 := range []float64{0, 0.3, 1} {
			got := ContrastRatio(l1, l2)
			if got < 1 || got > 21 {
				t.Errorf("ContrastRatio(%v,%v) = %v, out of [1,21]", l1, l2, got)
			}
		}
	}
}

func TestRelativeLuminance(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    float64
	}{
		{0, 0, 0, 0},
		{255, 255, 255, 1},
		{255, 0, 0, 0.2126},
		{0, 255, 0, 0.7152},
		{0, 0, 255, 0.0722},
	}
	for _, tt := range tests {
		if got := RelativeLuminance(tt.r, tt.g, tt.b); !approx(got, tt.want, 1e-9) {
			t.Errorf("RelativeLuminance(%d,%d,%d) = %v, want %v", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
	// Below the linear threshold the channel is scaled, not gamma-expanded.
	if got, want := Linear(10), (10.0/255)/12.92; !approx(got, want, 1e-12) {
		t.Errorf("Linear(10) = %v, want %v", got, want)
	}
}

func TestBestTextColor(t *testing.T) {
	tests := []struct {
		name string
		rgb  [3]uint8
		want string
	}{
		{"light gray", [3]uint8{245, 245, 245}, DarkText},
		{"white", [3]uint8{255, 255, 255}, DarkText},
		{"near black", [3]uint8{20, 20, 20}, LightText},
		{"navy", [3]uint8{10, 20, 80}, LightText},
		{"yellow", [3]uint8{250, 220, 40}, DarkText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lum := RelativeLuminance(tt.rgb[0], tt.rgb[1], tt.rgb[2])
			if got := BestTextColor(lum); got != tt.want {
				t.Errorf("BestTextColor(%v) = %s, want %s", lum, got, tt.want)
			}
		})
	}
}

func TestBestTextColorTieIsLight(t *testing.T) {
	if c, _ := pickReadable(4.2, 4.2); c != LightText {
		t.Errorf("tie resolved to %s, want %s", c, LightText)
	}
	if c, _ := pickReadable(4.2, 4.3); c != DarkText {
		t.Errorf("pickReadable(4.2, 4.3) = %s, want %s", c, DarkText)
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGBA
		ok   bool
	}{
		{"#ffffff", RGBA{255, 255, 255, 1}, true},
		{"000", RGBA{0, 0, 0, 1}, true},
		{"#f00", RGBA{255, 0, 0, 1}, true},
		{"#00000080", RGBA{0, 0, 0, 128.0 / 255}, true},
		{"#12345", Black, false},
		{"red", Black, false},
		{"#zzzzzz", Black, false},
		{"", Black, false},
	}
	for _, tt := range tests {
		got, ok := ParseHex(tt.in)
		if ok != tt.ok || got.R != tt.want.R || got.G != tt.want.G || got.B != tt.want.B || !approx(got.A, tt.want.A, 1e-9) {
			t.Errorf("ParseHex(%q) = %+v,%v want %+v,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestWithAlphaClamps(t *testing.T) {
	c := MustParseHex("#336699")
	if got := c.WithAlpha(2).A; got != 1 {
		t.Errorf("WithAlpha(2) = %v, want 1", got)
	}
	if got := c.WithAlpha(-0.5).A; got != 0 {
		t.Errorf("WithAlpha(-0.5) = %v, want 0", got)
	}
	if got := c.WithAlpha(0.25).CSS(); got != "rgba(51,102,153,0.25)" {
		t.Errorf("CSS() = %s", got)
	}
	if got := c.Hex(); got != "#336699" {
		t.Errorf("Hex() = %s", got)
	}
}

func TestMix(t *testing.T) {
	a := MustParseHex("#000000")
	b := MustParseHex("#ffffff")
	if got := Mix(a, b, 0); got.Hex() != "#000000" {
		t.Errorf("Mix(t=0) = %s", got.Hex())
	}
	if got := Mix(a, b, 1); got.Hex() != "#FFFFFF" {
		t.Errorf("Mix(t=1) = %s", got.Hex())
	}
	// Halfway in linear light is about 188 in sRGB, brighter than the
	// naive 128 of a gamma-space blend.
	mid := Mix(a.WithAlpha(0.4), b, 0.5)
	if mid.R != mid.G || mid.G != mid.B {
		t.Errorf("Mix(gray) = %s, want neutral", mid.Hex())
	}
	if mid.R < 185 || mid.R > 190 {
		t.Errorf("Mix(t=0.5).R = %d, want ~188", mid.R)
	}
	if mid.A != 0.4 {
		t.Errorf("Mix kept alpha %v, want 0.4", mid.A)
	}
	if got := Mix(a, b, 7); got.Hex() != "#FFFFFF" {
		t.Errorf("Mix(t>1) = %s, want clamped to b", got.Hex())
	}
	if Opposite(LightText) != DarkText || Opposite(DarkText) != LightText {
		t.Error("Opposite should swap readable colors")
	}
}
