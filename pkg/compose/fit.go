package compose

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/adcanvas/pkg/ad"
	"github.com/matzehuels/adcanvas/pkg/canvas"
)

// RoleMetrics are the sizing constants of one text role.
type RoleMetrics struct {
	// FontRatio converts block height to a starting font size.
	FontRatio float64
	// ShrinkStep is the font size decrement of the auto-fit loop.
	ShrinkStep float64
	// CharWidth is the average glyph advance as a share of font size,
	// used to estimate box width before the text is measured.
	CharWidth float64
	// MinWidth and MaxWidth bound the estimated width as lane fractions.
	MinWidth, MaxWidth float64
}

var roleMetrics = map[canvas.Role]RoleMetrics{
	canvas.RoleHeadline: {FontRatio: 0.58, ShrinkStep: 2, CharWidth: 0.56, MinWidth: 0.45, MaxWidth: 1},
	canvas.RoleSubhead:  {FontRatio: 0.42, ShrinkStep: 1, CharWidth: 0.5, MinWidth: 0.5, MaxWidth: 1},
	canvas.RoleCTA:      {FontRatio: 0.46, ShrinkStep: 1, CharWidth: 0.6, MinWidth: 0.3, MaxWidth: 0.9},
}

// MetricsFor returns the sizing constants of role.
func MetricsFor(role canvas.Role) RoleMetrics {
	if m, ok := roleMetrics[role]; ok {
		return m
	}
	return roleMetrics[canvas.RoleSubhead]
}

// SizeBounds is the allowed font size range of a role in one format.
type SizeBounds struct {
	Min, Max float64
}

var formatBounds = map[ad.Format]map[canvas.Role]SizeBounds{
	ad.FormatSquare: {
		canvas.RoleHeadline: {36, 92},
		canvas.RoleSubhead:  {20, 44},
		canvas.RoleCTA:      {18, 34},
	},
	ad.FormatPortrait: {
		canvas.RoleHeadline: {38, 96},
		canvas.RoleSubhead:  {22, 46},
		canvas.RoleCTA:      {18, 36},
	},
	ad.FormatStory: {
		canvas.RoleHeadline: {44, 110},
		canvas.RoleSubhead:  {24, 52},
		canvas.RoleCTA:      {20, 40},
	},
}

// BoundsFor returns the font size range for role in format. Unknown
// formats use square.
func BoundsFor(format ad.Format, role canvas.Role) SizeBounds {
	byRole, ok := formatBounds[format]
	if !ok {
		byRole = formatBounds[ad.FormatSquare]
	}
	if b, ok := byRole[role]; ok {
		return b
	}
	return byRole[canvas.RoleSubhead]
}

// FontSize picks the starting font size for a block height in pixels.
func FontSize(format ad.Format, role canvas.Role, blockHeight float64) float64 {
	b := BoundsFor(format, role)
	return clamp(math.Round(blockHeight*MetricsFor(role).FontRatio), b.Min, b.Max)
}

// EstimateWidth guesses the box width for text before measuring it.
func EstimateWidth(role canvas.Role, text string, size, laneWidth float64) float64 {
	m := MetricsFor(role)
	est := float64(utf8.RuneCountInString(text)) * size * m.CharWidth
	return clamp(est, laneWidth*m.MinWidth, laneWidth*m.MaxWidth)
}

// AutoFit shrinks t by step until its height fits maxHeight or the size
// reaches floor. It never sets a size below floor and returns the number of
// shrink steps taken, at most ceil((start-floor)/step).
func AutoFit(t *canvas.TextElement, maxHeight, floor, step float64) int {
	if step <= 0 {
		step = 1
	}
	n := 0
	for t.Layout().Height > maxHeight && t.Style().Size > floor {
		t.SetFontSize(max(floor, t.Style().Size-step))
		n++
	}
	return n
}

// Ellipsis marks trimmed text.
const Ellipsis = "…"

// MinTrimWords is the shortest prefix trimming may leave.
const MinTrimWords = 3

// Trim finds the longest word prefix of original that fits maxHeight with
// an ellipsis appended, by bisecting on the word count. Text of at most
// MinTrimWords words, or with no fitting prefix, is restored untouched and
// left overflowing. It reports whether the text was shortened.
func Trim(t *canvas.TextElement, original string, maxHeight float64) bool {
	words := strings.Fields(original)
	if len(words) <= MinTrimWords {
		return false
	}
	prefix := func(n int) string {
		return strings.Join(words[:n], " ") + Ellipsis
	}

	best := 0
	lo, hi := MinTrimWords, len(words)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		t.SetText(prefix(mid))
		if t.Layout().Height <= maxHeight {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	if best == 0 {
		t.SetText(original)
		return false
	}
	t.SetText(prefix(best))
	return true
}

// AlignX places content of width w inside a lane.
func AlignX(align ad.Align, laneX, laneW, w float64) float64 {
	switch align {
	case ad.AlignCenter:
		return laneX + (laneW-w)/2
	case ad.AlignRight:
		return laneX + laneW - w
	default:
		return laneX
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
