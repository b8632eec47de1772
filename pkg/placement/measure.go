package placement

import (
	"math"

	"github.com/matzehuels/adcanvas/pkg/color"
	"github.com/matzehuels/adcanvas/pkg/raster"
)

// Tuning holds the empirical constants of the clutter and scrim heuristics.
type Tuning struct {
	VarianceWeight float64 `toml:"variance_weight" json:"variance_weight"`
	EdgeWeight     float64 `toml:"edge_weight" json:"edge_weight"`

	// A block gets a scrim above this clutter or below this contrast.
	ScrimClutterThreshold  float64 `toml:"scrim_clutter_threshold" json:"scrim_clutter_threshold"`
	ScrimContrastThreshold float64 `toml:"scrim_contrast_threshold" json:"scrim_contrast_threshold"`

	// Zones whose preferred contrast is below MinContrast are penalized.
	MinContrast float64 `toml:"min_contrast" json:"min_contrast"`
}

// DefaultTuning returns the reference constants.
func DefaultTuning() Tuning {
	return Tuning{
		VarianceWeight:         8,
		EdgeWeight:             1.6,
		ScrimClutterThreshold:  0.24,
		ScrimContrastThreshold: 4.8,
		MinContrast:            4.5,
	}
}

// ZoneStats is the measurement of one zone on one image.
type ZoneStats struct {
	Zone          ZoneSpec `json:"zone"`
	Clutter       float64  `json:"clutter"`
	Luminance     float64  `json:"luminance"`
	ContrastWhite float64  `json:"contrast_white"`
	ContrastBlack float64  `json:"contrast_black"`
	TextColor     string   `json:"text_color"`
	Contrast      float64  `json:"contrast"`
}

// Measure computes clutter and text color for zone z in a single pass over
// the zone's pixels. A zone that covers no pixels reports clutter 0 and
// luminance 0.5.
func Measure(buf *raster.PixelBuffer, z ZoneSpec, t Tuning) ZoneStats {
	stats := ZoneStats{Zone: z, Luminance: 0.5}

	if buf != nil {
		if lum, variance, edges, ok := scan(buf, z.Rect); ok {
			stats.Luminance = lum
			stats.Clutter = clamp(variance*t.VarianceWeight+edges*t.EdgeWeight, 0, 1)
		}
	}

	stats.ContrastWhite = color.ContrastRatio(stats.Luminance, 1)
	stats.ContrastBlack = color.ContrastRatio(stats.Luminance, 0)
	stats.TextColor, stats.Contrast = color.BestTextColorWithContrast(stats.Luminance)
	return stats
}

// scan returns mean luminance, luminance variance and mean absolute
// neighbor delta over r.
func scan(buf *raster.PixelBuffer, r Rect) (mean, variance, edges float64, ok bool) {
	x0, y0, x1, y1 := r.Pixels(buf.Width(), buf.Height())
	if x1 <= x0 || y1 <= y0 {
		return 0, 0, 0, false
	}

	var (
		sum, sumSq, deltas float64
		pairs              int
		prev               = make([]float64, x1-x0)
	)
	for y := y0; y < y1; y++ {
		var left float64
		for x := x0; x < x1; x++ {
			l := color.RelativeLuminance(buf.RGB(x, y))
			sum += l
			sumSq += l * l

			i := x - x0
			if x > x0 {
				deltas += math.Abs(l - left)
				pairs++
			}
			if y > y0 {
				deltas += math.Abs(l - prev[i])
				pairs++
			}
			prev[i] = l
			left = l
		}
	}

	n := float64((x1 - x0) * (y1 - y0))
	mean = sum / n
	variance = max(0, sumSq/n-mean*mean)
	if pairs > 0 {
		edges = deltas / float64(pairs)
	}
	return mean, variance, edges, true
}
