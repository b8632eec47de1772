package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates on stderr while an image is analyzed or composed. Given a
// budget it shows elapsed time against the analysis deadline:
//
//	⠹ Analyzing hero.png 0.4s / 1.2s
type spinner struct {
	w       io.Writer
	message string
	budget  time.Duration
	start   time.Time

	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu    sync.Mutex
	width int
}

// newSpinner returns a stderr spinner that stops on its own when ctx ends.
// A zero budget hides the deadline.
func newSpinner(ctx context.Context, message string, budget time.Duration) *spinner {
	return newSpinnerTo(ctx, os.Stderr, message, budget)
}

func newSpinnerTo(ctx context.Context, w io.Writer, message string, budget time.Duration) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &spinner{
		w:       w,
		message: message,
		budget:  budget,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// label is the text beside the frame.
func (s *spinner) label(elapsed time.Duration) string {
	if s.budget <= 0 {
		return s.message
	}
	return fmt.Sprintf("%s %.1fs / %.1fs", s.message, elapsed.Seconds(), s.budget.Seconds())
}

// Start begins the animation.
func (s *spinner) Start() {
	s.start = time.Now()
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				label := s.label(time.Since(s.start))
				s.mu.Lock()
				fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]), StyleDim.Render(label))
				s.width = max(s.width, len(label)+2)
				s.mu.Unlock()
			}
		}
	}()
}

// Stop ends the animation, clears its line and returns the elapsed time.
// Later calls only return the elapsed time.
func (s *spinner) Stop() time.Duration {
	elapsed := time.Since(s.start)
	s.once.Do(func() {
		s.cancel()
		if !s.start.IsZero() {
			<-s.stopped
		}
		s.mu.Lock()
		if s.width > 0 {
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		}
		s.mu.Unlock()
	})
	return elapsed
}

// OverBudget reports whether the work ran past the deadline shown.
func (s *spinner) OverBudget(elapsed time.Duration) bool {
	return s.budget > 0 && elapsed >= s.budget
}

// StopWithWarning stops and prints message, noting a blown deadline.
func (s *spinner) StopWithWarning(message string) {
	if elapsed := s.Stop(); s.OverBudget(elapsed) {
		printWarning("%s (deadline %s reached)", message, s.budget)
		return
	}
	printWarning("%s", message)
}

// StopWithError stops and prints message as an error.
func (s *spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}
