package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"plan at info level", log.InfoLevel, func(l *log.Logger) { l.Info("placement plan", "source", "adaptive") }, true},
		{"zones at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("zone scores", "rows", 6) }, false},
		{"zones at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("zone scores", "rows", 6) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(10 * time.Millisecond)
	prog.done("Composed hero.json")

	out := buf.String()
	if !strings.Contains(out, "Composed hero.json") || !strings.Contains(out, "ms)") {
		t.Errorf("done() output = %q, want message with elapsed time", out)
	}
}

func TestProgressDoneWithin(t *testing.T) {
	tests := []struct {
		name     string
		budget   time.Duration
		wantWarn bool
	}{
		{"inside the analysis deadline", time.Hour, false},
		{"no deadline", 0, false},
		{"past the analysis deadline", time.Millisecond, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			prog := newProgress(newLogger(&buf, log.InfoLevel))
			time.Sleep(5 * time.Millisecond)
			prog.doneWithin("Analyzed hero.png", tt.budget)

			out := buf.String()
			if !strings.Contains(out, "Analyzed hero.png") {
				t.Fatalf("output %q lacks the message", out)
			}
			if got := strings.Contains(out, "WARN"); got != tt.wantWarn {
				t.Errorf("warned = %v, want %v: %q", got, tt.wantWarn, out)
			}
			if tt.wantWarn && !strings.Contains(out, "budget=1ms") {
				t.Errorf("warning %q lacks the budget", out)
			}
		})
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.DebugLevel)
	ctx := withLogger(context.Background(), l)

	if got := loggerFromContext(ctx); got != l {
		t.Error("loggerFromContext did not return the attached logger")
	}
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without a logger should fall back to log.Default()")
	}
}

func TestNewRunnerLogsCacheBackend(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogDebug)
	c.config.Cache.Backend = "none"
	ctx := withLogger(context.Background(), c.Logger)

	r, err := c.newRunner(ctx, false)
	if err != nil {
		t.Fatalf("newRunner() error: %v", err)
	}
	defer r.Close()
	if out := buf.String(); !strings.Contains(out, "plan cache") || !strings.Contains(out, "backend=none") {
		t.Errorf("debug log %q does not name the cache backend", out)
	}
}
