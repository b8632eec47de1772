// Package cli implements the adcanvas command-line interface.
//
// The commands analyze generated images for text placement, compose saved
// generation results into layered previews, browse zone measurements, and
// serve the same pipeline over HTTP. The CLI is built using cobra and logs
// through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - analyze: compute an adaptive placement plan for an image
//   - compose: lay out a generation result and write a PNG preview
//   - inspect: browse per-zone clutter and contrast interactively
//   - treatments: list text treatments or pick one for given copy
//   - serve: run the HTTP API
//   - cache: manage the plan cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes timestamped ("14:32:01.45") messages at level and above.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command step and logs it when done.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Analyzed bg.png (312ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, p.elapsed())
}

// doneWithin logs like done, at warn level once the step overran budget.
// Analyses that overrun fall back to template positions.
func (p *progress) doneWithin(msg string, budget time.Duration) {
	elapsed := p.elapsed()
	if budget > 0 && elapsed > budget {
		p.logger.Warn(msg, "elapsed", elapsed, "budget", budget)
		return
	}
	p.logger.Infof("%s (%s)", msg, elapsed)
}

func (p *progress) elapsed() time.Duration {
	return time.Since(p.start).Round(time.Millisecond)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l so runners built for a command log through it.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command logger, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
