// Package pipeline orchestrates image analysis and ad composition for the
// CLI and the HTTP server.
//
// # Architecture
//
// The pipeline has two entry points:
//
//  1. Analyze: load the generated image, downsample it, and ask the
//     placement planner for an adaptive plan. Analysis races a timeout and
//     degrades to "no plan" on any failure.
//  2. Compose: lay the ad out on a fresh canvas, using the stored plan or a
//     static template when there is none.
//
// Plans are cached by image content and hints, so reloading a saved ad
// reuses its layout decision.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	plan := runner.AnalyzeForPlacement(ctx, ad.Source{URL: imageURL}, placement.Hints{
//	    Format:    ad.FormatStory,
//	    Objective: ad.ObjectiveOffer,
//	})
//	if plan == nil {
//	    // composition will use static template positions
//	}
//
//	composer, err := runner.ComposeAd(ctx, result)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	layers := composer.Layers()
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/adcanvas/pkg/ad"
	"github.com/matzehuels/adcanvas/pkg/cache"
	"github.com/matzehuels/adcanvas/pkg/placement"
	"github.com/matzehuels/adcanvas/pkg/raster"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultTimeout bounds one placement analysis, including the image
	// download.
	DefaultTimeout = 1200 * time.Millisecond

	// DefaultSampleWidth is the width images are downsampled to before
	// zone measurement.
	DefaultSampleWidth = raster.DefaultSampleWidth

	// DefaultPlanTTL is how long analyzed plans stay cached.
	DefaultPlanTTL = cache.DefaultPlanTTL

	// DefaultImageTTL is how long downloaded images stay cached.
	DefaultImageTTL = cache.DefaultImageTTL
)

// Entry labels for cache hooks.
const (
	keyTypePlan  = cache.KindPlan
	keyTypeImage = cache.KindImage
)

// HintsFor derives placement hints from a generation result. An alignment
// that does not parse is treated as auto.
func HintsFor(r *ad.Result) placement.Hints {
	align, err := ad.ParseAlign(string(r.Layout.Align))
	if err != nil {
		align = ad.AlignAuto
	}
	return placement.Hints{
		Format:       r.Format,
		Objective:    r.Objective,
		Align:        align,
		HeadlineBand: r.Layout.HeadlineBand,
		AvoidCenter:  r.Layout.AvoidCenter,
		Accent:       r.Colors.Accent,
		Background:   r.Colors.Background,
	}.Normalize()
}

// planKeyOpts returns cache key options for a plan.
func planKeyOpts(h placement.Hints, t placement.Tuning) cache.PlanKeyOpts {
	return cache.PlanKeyOpts{
		Format:       string(h.Format),
		Objective:    string(h.Objective),
		Align:        string(h.Align),
		HeadlineBand: h.HeadlineBand,
		AvoidCenter:  h.AvoidCenter,
		Accent:       h.Accent,
		Tuning: fmt.Sprintf("%g/%g/%g/%g/%g",
			t.VarianceWeight, t.EdgeWeight, t.ScrimClutterThreshold, t.ScrimContrastThreshold, t.MinContrast),
	}
}
