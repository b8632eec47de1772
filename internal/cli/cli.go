package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/adcanvas/pkg/ad"
	"github.com/matzehuels/adcanvas/pkg/cache"
	"github.com/matzehuels/adcanvas/pkg/config"
	"github.com/matzehuels/adcanvas/pkg/errors"
	"github.com/matzehuels/adcanvas/pkg/fonts"
	"github.com/matzehuels/adcanvas/pkg/pipeline"
	"github.com/matzehuels/adcanvas/pkg/placement"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "adcanvas"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the config file selected by --config, or the default
// path when the flag is empty.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.config = cfg
	c.Logger.Debug("loaded config", "path", path, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	logger := loggerFromContext(ctx)
	logger.Debug("plan cache", "backend", cc)
	r := pipeline.NewRunner(cc, nil, logger)

	a := c.config.Analysis
	r.Planner = placement.NewPlanner(placement.WithTuning(a.Tuning), placement.WithLogger(logger))
	r.Timeout = a.Timeout.Duration
	r.SampleWidth = a.SampleWidth
	r.PlanTTL = c.config.Cache.TTL.Duration

	if len(c.config.Fonts) > 0 {
		lib := fonts.NewLibrary()
		for name, path := range c.config.Fonts {
			if err := lib.RegisterFile(name, path); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "font %s", name)
			}
		}
		r.Fonts = lib
	}
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cc := c.config.Cache
	switch cc.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPassword,
			DB:       cc.RedisDB,
			Prefix:   cc.RedisPrefix,
		})
	default:
		dir, err := c.cacheDir()
		if err != nil {
			loggerFromContext(ctx).Warn("plan cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.config.Cache.Dir != "" {
		return c.config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/adcanvas/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Argument Helpers
// =============================================================================

// imageSource turns a CLI argument into an image source: http(s) and data:
// URLs are fetched or decoded, anything else is a local path.
func imageSource(arg string) (ad.Source, error) {
	switch {
	case strings.HasPrefix(arg, "http://"), strings.HasPrefix(arg, "https://"), strings.HasPrefix(arg, "data:"):
		return ad.Source{URL: arg}, nil
	default:
		if err := errors.ValidateImagePath(arg); err != nil {
			return ad.Source{}, err
		}
		return ad.Source{Path: arg}, nil
	}
}

// hintFlags are the placement hint flags shared by analyze and inspect.
type hintFlags struct {
	format      string
	objective   string
	align       string
	band        string
	avoidCenter bool
	accent      string
}

func (f hintFlags) hints() (placement.Hints, error) {
	format, err := ad.ParseFormat(f.format)
	if err != nil {
		return placement.Hints{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid format")
	}
	obj, err := ad.ParseObjective(f.objective)
	if err != nil {
		return placement.Hints{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid objective")
	}
	align, err := ad.ParseAlign(f.align)
	if err != nil {
		return placement.Hints{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid alignment")
	}
	if f.band != "" && f.band != placement.BandUpper && f.band != string(placement.BandTop) {
		return placement.Hints{}, errors.New(errors.ErrCodeInvalidInput, "invalid headline band %q (must be one of: top, upper)", f.band)
	}
	return placement.Hints{
		Format:       format,
		Objective:    obj,
		Align:        align,
		HeadlineBand: f.band,
		AvoidCenter:  f.avoidCenter,
		Accent:       f.accent,
	}.Normalize(), nil
}

func describeHints(h placement.Hints) string {
	s := fmt.Sprintf("%s, %s, align %s", h.Format, h.Objective, h.Align)
	if h.AvoidCenter {
		s += ", avoid center"
	}
	return s
}
