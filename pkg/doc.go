// Package pkg provides the core libraries for adcanvas ad composition.
//
// # Overview
//
// adcanvas takes a generated ad image and its copy (headline, subhead and
// call to action) and decides where the text goes, which treatment it gets,
// and how large it can be set without overflowing. The pkg directory is
// organized into three main areas:
//
//  1. Analysis - [raster], [placement] (image sampling and zone scoring)
//  2. Composition - [treatment], [compose], [canvas], [fonts] (text fitting and layers)
//  3. Infrastructure - [pipeline], [cache], [config], [observability] (orchestration)
//
// # Architecture
//
// The typical data flow through adcanvas:
//
//	Generation result (image + copy)
//	         ↓
//	    [raster] package (load, downsample to a luminance buffer)
//	         ↓
//	    [placement] package (measure zones, pick blocks, build scrims)
//	         ↓
//	    [treatment] package (deterministic style selection)
//	         ↓
//	    [compose] package (fit text into blocks, place background and CTA)
//	         ↓
//	    [canvas] package (layered scene, PNG preview, layers JSON)
//
// # Quick Start
//
// Analyze an image and compose an ad:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/adcanvas/pkg/ad"
//	    "github.com/matzehuels/adcanvas/pkg/cache"
//	    "github.com/matzehuels/adcanvas/pkg/canvas"
//	    "github.com/matzehuels/adcanvas/pkg/pipeline"
//	)
//
//	// 1. Create a runner
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	defer runner.Close()
//
//	// 2. Compose a generation result (analyzes the image when no plan is stored)
//	composer, err := runner.ComposeAd(ctx, &ad.Result{
//	    Format: ad.FormatSquare,
//	    Copy:   ad.Copy{Headline: "Fresh roast", CTA: "Shop now"},
//	    Image:  ad.Source{Path: "bg.png"},
//	})
//
//	// 3. Render a preview
//	err = canvas.RenderPNG(composer.Canvas(), runner.Fonts, w)
//
// # Main Packages
//
// ## Analysis
//
// [raster] - Image loading from files, URLs and data URIs, and downsampling
// to a small luminance buffer that zone measurement reads.
//
// [placement] - Zone catalog, clutter and contrast measurement, scrim
// decisions, and the planner that turns measurements and hints into a
// [placement.Plan]. Static template plans are the fallback.
//
// ## Composition
//
// [treatment] - Catalog of text treatments and the hash-based selector that
// picks one per generation and variant.
//
// [compose] - Text fitting (font size bounds, auto-shrink, trimming),
// background placement, and the [compose.Composer] that builds the canvas.
//
// [canvas] - Layer model for the composed ad: image, scrim, text, shape and
// link elements, with PNG rendering and JSON export.
//
// [fonts] - Font library and face-based text measurement.
//
// ## Infrastructure
//
// [pipeline] - Orchestrates analysis with a deadline and caching, and wires
// composition for a generation result.
//
// [cache] - Plan cache backends (file, Redis, null) and key derivation.
//
// [config] - TOML configuration for analysis tuning, cache and server.
//
// [observability] - Pipeline, cache and HTTP hooks.
//
// [raster]: https://pkg.go.dev/github.com/matzehuels/adcanvas/pkg/raster
// [placement]: https://pkg.go.dev/github.com/matzehuels/adcanvas/pkg/placement
// [treatment]: https://pkg.go.dev/github.com/matzehuels/adcanvas/pkg/treatment
// [compose]: https://pkg.go.dev/github.com/matzehuels/adcanvas/pkg/compose
// [canvas]: https://pkg.go.dev/github.com/matzehuels/adcanvas/pkg/canvas
// [fonts]: https://pkg.go.dev/github.com/matzehuels/adcanvas/pkg/fonts
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/adcanvas/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/adcanvas/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/adcanvas/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/adcanvas/pkg/observability
package pkg
