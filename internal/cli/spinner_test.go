package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a buffer shared with the animation goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerLabel(t *testing.T) {
	tests := []struct {
		name    string
		budget  time.Duration
		elapsed time.Duration
		want    string
	}{
		{"no deadline", 0, 300 * time.Millisecond, "Composing hero.png"},
		{"within deadline", 1200 * time.Millisecond, 400 * time.Millisecond, "Analyzing hero.png 0.4s / 1.2s"},
		{"past deadline", 1200 * time.Millisecond, 1500 * time.Millisecond, "Analyzing hero.png 1.5s / 1.2s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := "Analyzing hero.png"
			if tt.budget == 0 {
				msg = "Composing hero.png"
			}
			s := newSpinnerTo(context.Background(), &syncBuffer{}, msg, tt.budget)
			if got := s.label(tt.elapsed); got != tt.want {
				t.Errorf("label(%v) = %q, want %q", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Analyzing hero.png", 1200*time.Millisecond)
	s.Start()
	time.Sleep(200 * time.Millisecond)
	elapsed := s.Stop()

	got := out.String()
	if !strings.Contains(got, "Analyzing hero.png") {
		t.Errorf("output %q lacks the message", got)
	}
	if !strings.Contains(got, "/ 1.2s") {
		t.Errorf("output %q lacks the deadline", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Error("Stop did not clear the line")
	}
	if elapsed < 200*time.Millisecond {
		t.Errorf("Stop() = %v, want at least 200ms", elapsed)
	}
}

func TestSpinnerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerTo(ctx, &syncBuffer{}, "Analyzing hero.png", 50*time.Millisecond)
	s.Start()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("animation kept running after the analysis deadline")
	}
	if !s.OverBudget(s.Stop()) {
		t.Error("OverBudget = false after the deadline passed")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, "Composing", 0)
	s.Start()
	s.Stop()
	s.Stop()
	s.StopWithError("Compose failed")
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Composing", 0)
	s.Stop()
	if out.String() != "" {
		t.Errorf("unstarted spinner wrote %q", out.String())
	}
}

func TestSpinnerOverBudget(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, "Analyzing", time.Second)
	if s.OverBudget(999 * time.Millisecond) {
		t.Error("OverBudget(999ms) = true with a 1s budget")
	}
	if !s.OverBudget(time.Second) {
		t.Error("OverBudget(1s) = false with a 1s budget")
	}
	if newSpinnerTo(context.Background(), &syncBuffer{}, "Composing", 0).OverBudget(time.Hour) {
		t.Error("a spinner without budget reported OverBudget")
	}
}
