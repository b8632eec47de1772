package placement

import (
	"github.com/matzehuels/adcanvas/pkg/color"
)

// Scrim opacity curve.
const (
	scrimBaseOpacity   = 0.18
	scrimClutterGain   = 0.55
	scrimContrastBoost = 0.12
	scrimMinOpacity    = 0.2
	scrimMaxOpacity    = 0.62
	scrimPadding       = 0.05
)

// Scrim is a translucent backdrop behind a text block.
type Scrim struct {
	Enabled bool    `json:"enabled"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
	Padding float64 `json:"padding"` // fraction of the block size
}

// BuildScrim decides whether the measured zone needs a backdrop. Opacity
// never decreases as clutter grows at a fixed contrast.
func BuildScrim(stats ZoneStats, t Tuning) Scrim {
	cluttered := stats.Clutter > t.ScrimClutterThreshold
	lowContrast := stats.Contrast < t.ScrimContrastThreshold

	s := Scrim{
		Color:   color.Opposite(stats.TextColor),
		Padding: scrimPadding,
	}
	if !cluttered && !lowContrast {
		return s
	}

	opacity := scrimBaseOpacity + scrimClutterGain*stats.Clutter
	if lowContrast {
		opacity += scrimContrastBoost
	}
	s.Enabled = true
	s.Opacity = clamp(opacity, scrimMinOpacity, scrimMaxOpacity)
	return s
}

// TextColorOver picks the readable text color for a zone once the scrim is
// blended over it.
func TextColorOver(stats ZoneStats, s Scrim) string {
	if !s.Enabled {
		return stats.TextColor
	}
	scrimLum := color.Luminance(color.HexOr(s.Color, color.DarkText))
	blended := stats.Luminance*(1-s.Opacity) + scrimLum*s.Opacity
	return color.BestTextColor(blended)
}
