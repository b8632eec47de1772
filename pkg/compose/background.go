package compose

import "github.com/matzehuels/adcanvas/pkg/ad"

// Background cover constants.
const (
	// overscan hides rounding gaps at the canvas edges.
	overscan = 1.03
	// focalBias moves the crop center away from the text lane.
	focalBias = 0.12
)

// Placement is where a background image lands on the canvas.
type Placement struct {
	X, Y          float64
	Scale         float64
	Width, Height float64 // scaled size
}

// PlaceBackground covers a canvasW×canvasH canvas with a srcW×srcH image.
// The crop is centered, or biased toward the side opposite a left or right
// text lane.
func PlaceBackground(canvasW, canvasH, srcW, srcH float64, align ad.Align) Placement {
	if srcW <= 0 || srcH <= 0 {
		return Placement{Scale: 1}
	}
	scale := max(canvasW/srcW, canvasH/srcH) * overscan
	w, h := srcW*scale, srcH*scale

	focal := 0.5
	switch align {
	case ad.AlignLeft:
		focal -= focalBias
	case ad.AlignRight:
		focal += focalBias
	}

	x := clamp(canvasW/2-focal*w, canvasW-w, 0)
	y := (canvasH - h) / 2
	return Placement{X: x, Y: y, Scale: scale, Width: w, Height: h}
}
