package placement

import (
	"math/rand"
	"testing"

	"github.com/matzehuels/adcanvas/pkg/ad"
	"github.com/matzehuels/adcanvas/pkg/color"
	"github.com/matzehuels/adcanvas/pkg/raster"
)

// uniform returns a w×h buffer filled with one gray level.
func uniform(t *testing.T, w, h int, v uint8) *raster.PixelBuffer {
	t.Helper()
	return build(t, w, h, func(x, y int) uint8 { return v })
}

func build(t *testing.T, w, h int, f func(x, y int) uint8) *raster.PixelBuffer {
	t.Helper()
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := f(x, y)
			i := (y*w + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 255
		}
	}
	buf, err := raster.NewPixelBuffer(w, h, pix)
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

// noisyTop fills the top 30% with random black/white noise and leaves the
// rest flat gray.
func noisyTop(t *testing.T, w, h int) *raster.PixelBuffer {
	rng := rand.New(rand.NewSource(7))
	return build(t, w, h, func(x, y int) uint8 {
		if float64(y) < 0.3*float64(h) {
			if rng.Intn(2) == 0 {
				return 0
			}
			return 255
		}
		return 200
	})
}

func TestZoneFractionInvariant(t *testing.T) {
	zones := DefaultZones()
	if len(zones) != 8 {
		t.Fatalf("len(DefaultZones()) = %d, want 8", len(zones))
	}
	for _, z := range zones {
		if !z.Rect.Valid() {
			t.Errorf("zone %s rect %+v outside the unit square", z.Name, z.Rect)
		}
	}
	for _, align := range []ad.Align{ad.AlignLeft, ad.AlignCenter, ad.AlignRight} {
		for _, z := range DefaultLanes().Zones(align) {
			if !z.Rect.Valid() {
				t.Errorf("lane %s (%s) rect %+v outside the unit square", z.Name, align, z.Rect)
			}
		}
	}
}

func TestRectPixels(t *testing.T) {
	r := Rect{X: 0.25, Y: 0.1, W: 0.5, H: 0.33}
	x0, y0, x1, y1 := r.Pixels(10, 10)
	if x0 != 2 || y0 != 1 || x1 != 8 || y1 != 5 {
		t.Errorf("Pixels() = (%d,%d,%d,%d), want (2,1,8,5)", x0, y0, x1, y1)
	}

	x0, _, x1, _ = Rect{X: 0.9, Y: 0, W: 0.5, H: 1}.Pixels(10, 10)
	if x0 != 9 || x1 != 10 {
		t.Errorf("Pixels() x = (%d,%d), want (9,10)", x0, x1)
	}
}

func TestMeasureLightBackground(t *testing.T) {
	stats := Measure(uniform(t, 40, 40, 245), DefaultZones()[0], DefaultTuning())

	if stats.TextColor != color.DarkText {
		t.Errorf("TextColor = %s, want %s", stats.TextColor, color.DarkText)
	}
	if stats.Clutter != 0 {
		t.Errorf("Clutter = %v, want 0", stats.Clutter)
	}
}

func TestMeasureDarkBackground(t *testing.T) {
	stats := Measure(uniform(t, 40, 40, 20), DefaultZones()[0], DefaultTuning())

	if stats.TextColor != color.LightText {
		t.Errorf("TextColor = %s, want %s", stats.TextColor, color.LightText)
	}
	if stats.ContrastWhite <= stats.ContrastBlack {
		t.Errorf("ContrastWhite = %v, want > ContrastBlack %v", stats.ContrastWhite, stats.ContrastBlack)
	}
}

func TestMeasureDegenerateZone(t *testing.T) {
	tests := []struct {
		name string
		buf  *raster.PixelBuffer
		rect Rect
	}{
		{"empty buffer", uniform(t, 0, 0, 0), Rect{0, 0, 1, 1}},
		{"nil buffer", nil, Rect{0, 0, 1, 1}},
		{"zero width", uniform(t, 10, 10, 0), Rect{0.5, 0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := Measure(tt.buf, ZoneSpec{Name: "z", Rect: tt.rect}, DefaultTuning())
			if stats.Clutter != 0 || stats.Luminance != 0.5 {
				t.Errorf("Measure() = clutter %v lum %v, want 0 and 0.5", stats.Clutter, stats.Luminance)
			}
		})
	}
}

func TestMeasureCheckerboardIsCluttered(t *testing.T) {
	buf := build(t, 20, 20, func(x, y int) uint8 {
		if (x+y)%2 == 0 {
			return 0
		}
		return 255
	})
	stats := Measure(buf, ZoneSpec{Rect: Rect{0, 0, 1, 1}}, DefaultTuning())
	if stats.Clutter != 1 {
		t.Errorf("Clutter = %v, want 1", stats.Clutter)
	}
}

func TestBuildScrim(t *testing.T) {
	tuning := DefaultTuning()

	quiet := BuildScrim(ZoneStats{Clutter: 0.1, Contrast: 12, TextColor: color.DarkText}, tuning)
	if quiet.Enabled || quiet.Opacity != 0 {
		t.Errorf("quiet scrim = %+v, want disabled", quiet)
	}

	busy := BuildScrim(ZoneStats{Clutter: 0.9, Contrast: 12, TextColor: color.LightText}, tuning)
	if !busy.Enabled {
		t.Fatal("busy scrim disabled")
	}
	if busy.Opacity != scrimMaxOpacity {
		t.Errorf("busy Opacity = %v, want %v", busy.Opacity, scrimMaxOpacity)
	}
	if busy.Color != color.DarkText {
		t.Errorf("busy Color = %s, want %s", busy.Color, color.DarkText)
	}

	lowContrast := BuildScrim(ZoneStats{Clutter: 0, Contrast: 3, TextColor: color.DarkText}, tuning)
	if !lowContrast.Enabled || lowContrast.Opacity < scrimMinOpacity {
		t.Errorf("low contrast scrim = %+v, want enabled with opacity >= %v", lowContrast, scrimMinOpacity)
	}
}

func TestBuildScrimMonotonic(t *testing.T) {
	tuning := DefaultTuning()
	for _, contrast := range []float64{2, 4.79, 4.8, 10, 21} {
		prev := -1.0
		for i := 0; i <= 100; i++ {
			s := BuildScrim(ZoneStats{Clutter: float64(i) / 100, Contrast: contrast}, tuning)
			if s.Opacity < prev {
				t.Fatalf("contrast %v: opacity dropped from %v to %v at clutter %v", contrast, prev, s.Opacity, float64(i)/100)
			}
			prev = s.Opacity
		}
	}
}

func TestPlanClutteredTopBand(t *testing.T) {
	plan := NewPlanner().Plan(noisyTop(t, 120, 120), Hints{})

	if plan.CTA.Y <= 0.7 {
		t.Errorf("CTA.Y = %v, want > 0.7", plan.CTA.Y)
	}
	if plan.Confidence <= 0 {
		t.Errorf("Confidence = %v, want > 0", plan.Confidence)
	}
	if plan.Headline.Zone == "top-left" || plan.Headline.Zone == "top-center" || plan.Headline.Zone == "top-right" {
		t.Errorf("Headline zone = %s, want a zone outside the noisy band", plan.Headline.Zone)
	}
	if err := plan.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestPlanAvoidCenterOverride(t *testing.T) {
	// Busy frame except for a quiet center column.
	rng := rand.New(rand.NewSource(3))
	buf := build(t, 100, 100, func(x, y int) uint8 {
		if x >= 15 && x < 85 {
			return 128
		}
		return uint8(rng.Intn(256))
	})

	quiet := NewPlanner().Plan(buf, Hints{})
	if quiet.Headline.Align != ad.AlignCenter {
		t.Fatalf("unhinted headline align = %s, want center", quiet.Headline.Align)
	}

	plan := NewPlanner().Plan(buf, Hints{AvoidCenter: true, Align: ad.AlignLeft})
	if plan.Headline.Align != ad.AlignLeft {
		t.Errorf("Headline.Align = %s, want left", plan.Headline.Align)
	}
	if plan.Subhead.Y <= plan.Headline.Y+plan.Headline.H {
		t.Errorf("Subhead.Y = %v, want > %v", plan.Subhead.Y, plan.Headline.Y+plan.Headline.H)
	}
	if plan.Source != SourceLanes {
		t.Errorf("Source = %s, want %s", plan.Source, SourceLanes)
	}
	if plan.Confidence < laneMinConfidence || plan.Confidence > laneMaxConfidence {
		t.Errorf("Confidence = %v, want within lane bounds", plan.Confidence)
	}
}

func TestPlanTiesPreferCatalogOrder(t *testing.T) {
	plan := NewPlanner().Plan(uniform(t, 50, 50, 245), Hints{})

	if plan.Headline.Zone != "top-left" {
		t.Errorf("Headline zone = %s, want top-left", plan.Headline.Zone)
	}
	if plan.CTA.Zone != "bottom-left" {
		t.Errorf("CTA zone = %s, want bottom-left", plan.CTA.Zone)
	}
}

func TestPlanOfferPrefersCenterCTA(t *testing.T) {
	plan := NewPlanner().Plan(uniform(t, 50, 50, 245), Hints{Objective: ad.ObjectiveOffer})

	if plan.CTA.Zone != "bottom-center" {
		t.Fatalf("CTA zone = %s, want bottom-center", plan.CTA.Zone)
	}
	if got := plan.CTA.X + plan.CTA.W/2; got < 0.499 || got > 0.501 {
		t.Errorf("CTA center = %v, want 0.5", got)
	}
}

func TestPlanPreferredAlignment(t *testing.T) {
	plan := NewPlanner().Plan(uniform(t, 50, 50, 245), Hints{Align: ad.AlignRight})
	if plan.Headline.Zone != "top-right" {
		t.Errorf("Headline zone = %s, want top-right", plan.Headline.Zone)
	}
}

func TestPlanSubheadBounds(t *testing.T) {
	buf := noisyTop(t, 80, 80)
	for _, h := range []Hints{{}, {HeadlineBand: BandUpper}, {Align: ad.AlignRight}} {
		plan := NewPlanner().Plan(buf, h)
		if plan.Subhead.Y < subheadMinY || plan.Subhead.Y > subheadMaxY {
			t.Errorf("hints %+v: Subhead.Y = %v, want within [%v, %v]", h, plan.Subhead.Y, subheadMinY, subheadMaxY)
		}
		if plan.Subhead.Y <= plan.Headline.Y {
			t.Errorf("hints %+v: Subhead.Y = %v, want below headline %v", h, plan.Subhead.Y, plan.Headline.Y)
		}
	}
}

func TestPlanCTAButtonColors(t *testing.T) {
	plan := NewPlanner().Plan(uniform(t, 40, 40, 20), Hints{Accent: "#ff6600"})
	if plan.CTA.ButtonColor != "#FF6600" {
		t.Errorf("ButtonColor = %s, want #FF6600", plan.CTA.ButtonColor)
	}
	if plan.CTA.ButtonTextColor != color.DarkText {
		t.Errorf("ButtonTextColor = %s, want %s", plan.CTA.ButtonTextColor, color.DarkText)
	}

	plan = NewPlanner().Plan(uniform(t, 40, 40, 20), Hints{Accent: "orange"})
	if plan.CTA.ButtonColor != color.LightText {
		t.Errorf("ButtonColor = %s, want %s", plan.CTA.ButtonColor, color.LightText)
	}
}

func TestPlanRoundTrip(t *testing.T) {
	plan := NewPlanner().Plan(noisyTop(t, 60, 60), Hints{})
	raw, err := plan.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	got, err := Unmarshal(raw)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Headline.Rect != plan.Headline.Rect || got.CTA.ButtonColor != plan.CTA.ButtonColor {
		t.Errorf("Unmarshal() = %+v, want %+v", got, plan)
	}

	if p, err := Unmarshal([]byte("null")); p != nil || err != nil {
		t.Errorf("Unmarshal(null) = %v, %v, want nil, nil", p, err)
	}
}

func TestPlanValidate(t *testing.T) {
	good := StaticPlan(ad.FormatSquare, TemplateStackCenter, ad.ColorHints{})
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	outside := good
	outside.Headline.X = 0.9
	if outside.Validate() == nil {
		t.Error("Validate() accepted a block past the right edge")
	}

	stacked := good
	stacked.Subhead.Y = stacked.Headline.Y
	if stacked.Validate() == nil {
		t.Error("Validate() accepted blocks with equal y")
	}
}

func TestStaticPlan(t *testing.T) {
	for _, f := range ad.Formats() {
		for _, tmpl := range append(Templates(), "unknown") {
			plan := StaticPlan(f, tmpl, ad.ColorHints{Text: "#101010", Accent: "#00AA55"})
			if err := plan.Validate(); err != nil {
				t.Errorf("StaticPlan(%s, %s) invalid: %v", f, tmpl, err)
			}
			if plan.Source != SourceStatic {
				t.Errorf("Source = %s, want %s", plan.Source, SourceStatic)
			}
			if plan.Headline.Color != "#101010" {
				t.Errorf("Headline.Color = %s, want #101010", plan.Headline.Color)
			}
			if plan.Headline.Scrim.Color != color.LightText {
				t.Errorf("Scrim.Color = %s, want %s", plan.Headline.Scrim.Color, color.LightText)
			}
		}
	}

	if got := StaticPlan(ad.FormatSquare, "unknown", ad.ColorHints{}).Headline.Zone; got != TemplateStackCenter {
		t.Errorf("unknown template zone = %s, want %s", got, TemplateStackCenter)
	}
}
