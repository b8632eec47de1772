package pipeline

import (
	"context"
	"image"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/adcanvas/pkg/ad"
	"github.com/matzehuels/adcanvas/pkg/cache"
	"github.com/matzehuels/adcanvas/pkg/canvas"
	"github.com/matzehuels/adcanvas/pkg/compose"
	"github.com/matzehuels/adcanvas/pkg/errors"
	"github.com/matzehuels/adcanvas/pkg/fonts"
	"github.com/matzehuels/adcanvas/pkg/observability"
	"github.com/matzehuels/adcanvas/pkg/placement"
	"github.com/matzehuels/adcanvas/pkg/raster"
	"github.com/matzehuels/adcanvas/pkg/treatment"
)

// Runner encapsulates analysis and composition with caching.
// Both CLI and API use it so timeout, fallback, and caching behave the same
// everywhere.
//
// The Runner holds no per-ad state; every ComposeAd call builds its own
// canvas and composer. Multiple goroutines can share one Runner.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Planner  *placement.Planner
	Selector *treatment.Selector
	Fonts    *fonts.Library
	Client   *http.Client

	// Timeout bounds one analysis. Zero means DefaultTimeout.
	Timeout time.Duration
	// SampleWidth is the analysis downsample width. Zero means DefaultSampleWidth.
	SampleWidth int
	// PlanTTL is the cache lifetime of analyzed plans. Zero means DefaultPlanTTL.
	PlanTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Planner:  placement.NewPlanner(placement.WithLogger(logger)),
		Selector: treatment.NewSelector(treatment.DefaultCatalog()),
		Fonts:    fonts.Default(),
		Client:   raster.NewHTTPClient(),
	}
}

// AnalyzeForPlacement loads the image behind src and returns an adaptive
// placement plan, or nil when loading, decoding or analysis fails or the
// timeout elapses first. Failures are logged, never returned.
func (r *Runner) AnalyzeForPlacement(ctx context.Context, src ad.Source, hints placement.Hints) *placement.Plan {
	h := hints.Normalize()
	return r.analyze(ctx, h, func() (*placement.Plan, error) {
		data, err := r.readSource(ctx, src)
		if err != nil {
			return nil, err
		}
		return r.planFor(ctx, data, nil, h)
	})
}

// ComposeAd lays out a generation result on a new canvas sized for its
// format. A missing plan is computed from the image when possible and stored
// back on the result so a saved ad reproduces the same layout. An image that
// fails to load leaves the ad without a background; invalid copy or format
// is returned as an error with the canvas left empty.
func (r *Runner) ComposeAd(ctx context.Context, res *ad.Result) (*compose.Composer, error) {
	if res == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "generation result is required")
	}
	if res.Format == "" {
		res.Format = ad.FormatSquare
	}
	if !res.Format.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", res.Format)
	}

	var img image.Image
	if !res.Image.IsZero() {
		data, err := r.readSource(ctx, res.Image)
		if err == nil {
			img, err = raster.Decode(data)
		}
		if err != nil {
			r.Logger.Warn("background image unavailable", "id", res.ID, "error", err)
		} else if len(res.Plan) == 0 {
			h := HintsFor(res)
			if plan := r.analyze(ctx, h, func() (*placement.Plan, error) {
				return r.planFor(ctx, data, img, h)
			}); plan != nil {
				if raw, err := plan.Marshal(); err == nil {
					res.Plan = raw
				}
			}
		}
	}

	size := res.Format.Size()
	composer := compose.NewComposer(
		canvas.New(size.Width, size.Height),
		fonts.NewFaceMeasurer(r.Fonts),
		compose.WithSelector(r.Selector),
		compose.WithLogger(r.Logger),
	)

	hooks := observability.Pipeline()
	hooks.OnComposeStart(ctx, string(res.Format), res.TreatmentID)
	start := time.Now()
	err := composer.Compose(ctx, *res, img)
	hooks.OnComposeComplete(ctx, string(res.Format), composer.Treatment().ID, time.Since(start), err)
	return composer, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

type analysis struct {
	plan *placement.Plan
	err  error
}

// analyze races fn against the timeout and ctx. The losing result is
// dropped; fn is not interrupted.
func (r *Runner) analyze(ctx context.Context, h placement.Hints, fn func() (*placement.Plan, error)) *placement.Plan {
	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, string(h.Format))
	start := time.Now()

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	done := make(chan analysis, 1)
	go func() {
		plan, err := fn()
		done <- analysis{plan, err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var out analysis
	select {
	case out = <-done:
	case <-timer.C:
		out.err = errors.New(errors.ErrCodeTimeout, "placement analysis exceeded %s", timeout)
	case <-ctx.Done():
		out.err = errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "placement analysis cancelled")
	}

	elapsed := time.Since(start)
	source := ""
	if out.plan != nil {
		source = out.plan.Source
	}
	hooks.OnAnalyzeComplete(ctx, string(h.Format), source, elapsed, out.err)

	if out.err != nil {
		r.Logger.Warn("placement analysis failed, using static layout",
			"format", h.Format,
			"error", out.err,
			"duration", elapsed)
		return nil
	}
	r.Logger.Debug("placement analyzed",
		"source", source,
		"confidence", out.plan.Confidence,
		"duration", elapsed)
	return out.plan
}

// readSource returns the bytes behind src. Downloads are cached by URL, so
// analyzing one image for several formats fetches it once.
func (r *Runner) readSource(ctx context.Context, src ad.Source) ([]byte, error) {
	if !remote(src) {
		return raster.ReadSource(ctx, src, r.Client)
	}
	key := r.Keyer.ImageKey(src.URL)
	hooks := observability.Cache()
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		hooks.OnCacheHit(ctx, keyTypeImage)
		return data, nil
	} else if err != nil {
		r.Logger.Debug("image cache read failed", "error", err)
	}
	hooks.OnCacheMiss(ctx, keyTypeImage)

	data, err := raster.ReadSource(ctx, src, r.Client)
	if err != nil {
		return nil, err
	}
	if err := r.Cache.Set(ctx, key, data, DefaultImageTTL); err != nil {
		r.Logger.Debug("image cache write failed", "error", err)
	} else {
		hooks.OnCacheSet(ctx, keyTypeImage, len(data))
	}
	return data, nil
}

func remote(src ad.Source) bool {
	return strings.HasPrefix(src.URL, "http://") || strings.HasPrefix(src.URL, "https://")
}

// planFor returns the plan for the given image bytes, consulting the plan
// cache first. img may be nil, in which case data is decoded.
func (r *Runner) planFor(ctx context.Context, data []byte, img image.Image, h placement.Hints) (*placement.Plan, error) {
	planner := r.Planner
	if planner == nil {
		planner = placement.NewPlanner(placement.WithLogger(r.Logger))
	}
	key := r.Keyer.PlanKey(cache.Hash(data), planKeyOpts(h, planner.Tuning()))
	hooks := observability.Cache()

	if cached, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		if plan, err := placement.Unmarshal(cached); err == nil && plan != nil {
			hooks.OnCacheHit(ctx, keyTypePlan)
			return plan, nil
		}
		// Unreadable entry, recompute
	} else if err != nil {
		r.Logger.Debug("plan cache read failed", "error", err)
	}
	hooks.OnCacheMiss(ctx, keyTypePlan)

	if img == nil {
		var err error
		if img, err = raster.Decode(data); err != nil {
			return nil, err
		}
	}
	width := r.SampleWidth
	if width <= 0 {
		width = DefaultSampleWidth
	}
	buf := raster.Sample(img, width)
	if buf.Width() == 0 || buf.Height() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidImage, "image has no pixels")
	}

	plan := planner.Plan(buf, h)
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	if raw, err := plan.Marshal(); err == nil {
		ttl := r.PlanTTL
		if ttl <= 0 {
			ttl = DefaultPlanTTL
		}
		if err := r.Cache.Set(ctx, key, raw, ttl); err != nil {
			r.Logger.Debug("plan cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypePlan, len(raw))
		}
	}
	return &plan, nil
}
