package formatter

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// Spinner redraws a one-line status on w until stopped. It borrows the
// frame set of the bubbles spinner but runs outside a tea.Program, so
// plain cobra commands can use it.
type Spinner struct {
	w       io.Writer
	message string
	style   spinner.Spinner

	once   sync.Once
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSpinner creates a spinner that draws to w.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		message: message,
		style:   spinner.MiniDot,
		done:    make(chan struct{}),
	}
}

// Start draws frames until Stop is called or ctx ends.
func (s *Spinner) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.run(ctx)
}

func (s *Spinner) run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.style.FPS)
	defer ticker.Stop()

	frames := s.style.Frames
	for n := 0; ; n++ {
		select {
		case <-ctx.Done():
			fmt.Fprint(s.w, "\r\033[K")
			return
		case <-ticker.C:
			fmt.Fprintf(s.w, "\r  %s %s", StyleBusy.Render(frames[n%len(frames)]), Dim(s.message))
		}
	}
}

// Stop clears the line and waits for the last frame to be erased.
// Calling it more than once, or before Start, does nothing.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		if s.cancel == nil {
			return
		}
		s.cancel()
		<-s.done
	})
}

// StartSpinner creates and starts a spinner on w. Call the returned
// function to stop it.
func StartSpinner(ctx context.Context, w io.Writer, message string) func() {
	s := NewSpinner(w, message)
	s.Start(ctx)
	return s.Stop
}
