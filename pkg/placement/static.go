package placement

import (
	"github.com/matzehuels/adcanvas/pkg/ad"
	"github.com/matzehuels/adcanvas/pkg/color"
)

// Static templates.
const (
	TemplateStackCenter  = "stack-center"
	TemplateStackLeft    = "stack-left"
	TemplatePosterBottom = "poster-bottom"
)

// staticScrimOpacity covers an unmeasured image well enough for text.
const staticScrimOpacity = 0.35

type staticLayout struct {
	align                  ad.Align
	headline, subhead, cta Rect
}

var staticLayouts = map[string]staticLayout{
	TemplateStackCenter: {
		align:    ad.AlignCenter,
		headline: Rect{0.1, 0.1, 0.8, 0.18},
		subhead:  Rect{0.14, 0.31, 0.72, 0.1},
		cta:      Rect{0.32, 0.8, 0.36, 0.09},
	},
	TemplateStackLeft: {
		align:    ad.AlignLeft,
		headline: Rect{0.07, 0.1, 0.6, 0.2},
		subhead:  Rect{0.07, 0.33, 0.55, 0.1},
		cta:      Rect{0.07, 0.8, 0.34, 0.09},
	},
	TemplatePosterBottom: {
		align:    ad.AlignLeft,
		headline: Rect{0.07, 0.56, 0.8, 0.16},
		subhead:  Rect{0.07, 0.73, 0.7, 0.08},
		cta:      Rect{0.07, 0.84, 0.34, 0.08},
	},
}

// Templates lists the static template ids.
func Templates() []string {
	return []string{TemplateStackCenter, TemplateStackLeft, TemplatePosterBottom}
}

// formatBand maps template y coordinates into the usable band of a format.
// Taller formats keep text out of the top and bottom areas that platform
// overlays cover.
func formatBand(f ad.Format) (offset, scale float64) {
	switch f {
	case ad.FormatPortrait:
		return 0.02, 0.96
	case ad.FormatStory:
		return 0.08, 0.84
	default:
		return 0, 1
	}
}

// StaticPlan returns fixed template positions for format. Unknown templates
// use stack-center. The text color comes from the color hints when valid
// and every block gets a scrim since the image is not measured.
func StaticPlan(format ad.Format, templateID string, colors ad.ColorHints) Plan {
	layout, ok := staticLayouts[templateID]
	if !ok {
		templateID = TemplateStackCenter
		layout = staticLayouts[templateID]
	}
	offset, scale := formatBand(format)
	fit := func(r Rect) Rect {
		r.Y = offset + r.Y*scale
		r.H *= scale
		return r.Clamp()
	}

	text := color.LightText
	if c, ok := color.ParseHex(colors.Text); ok {
		text = c.Hex()
	}
	scrim := Scrim{
		Enabled: true,
		Color:   color.BestTextColor(color.Luminance(color.MustParseHex(text))),
		Opacity: staticScrimOpacity,
		Padding: scrimPadding,
	}

	block := func(r Rect) TextBlock {
		return TextBlock{Rect: fit(r), Align: layout.align, Color: text, Scrim: scrim, Zone: templateID}
	}
	button := ctaButtonColor(firstNonEmpty(colors.Accent, colors.Primary), text)

	return Plan{
		Headline: block(layout.headline),
		Subhead:  block(layout.subhead),
		CTA: CTABlock{
			TextBlock:       block(layout.cta),
			ButtonStyle:     DefaultButtonStyle,
			ButtonColor:     button,
			ButtonTextColor: color.BestTextColor(color.Luminance(color.MustParseHex(button))),
			Radius:          DefaultCTARadius,
		},
		Source:    SourceStatic,
		Rationale: []string{"static template " + templateID + " for " + string(format)},
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
