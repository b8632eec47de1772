// Package placement decides where ad text belongs on a generated image.
//
// # Overview
//
// Analysis runs in three steps over a downsampled [raster.PixelBuffer]:
//
//  1. [Measure] scores each candidate [ZoneSpec] for clutter (tonal variance
//     plus edge density) and picks the readable text color for it.
//  2. [Planner.Plan] chooses a headline zone and a CTA zone from the catalog,
//     or pins three lanes to one side when the caller asked for a concrete
//     alignment and to avoid the center.
//  3. [BuildScrim] decides whether each block needs a backdrop and how
//     opaque it must be.
//
// The result is a [Plan]: three blocks in fractional coordinates, a
// confidence score and a rationale trail. Plans are plain data and can be
// stored with the generation they were computed for.
//
// When no image analysis is available, [StaticPlan] returns template
// positions for a format.
//
// # Tuning
//
// Clutter weights and scrim thresholds are empirical. They live in [Tuning]
// so deployments can adjust them without touching the scoring code:
//
//	p := placement.NewPlanner(placement.WithTuning(placement.Tuning{
//	    VarianceWeight: 8, EdgeWeight: 1.6, ...
//	}))
package placement
