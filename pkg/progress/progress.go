package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Spinner shows an animated line while a request is in flight. Nothing is
// drawn until Delay has passed, so fast requests leave no trace.
type Spinner struct {
	mu         sync.Mutex
	writer     io.Writer
	frames     []string
	frameIndex int
	message    string
	running    bool
	drawn      bool
	stopChan   chan struct{}
	wg         sync.WaitGroup

	Delay    time.Duration
	Interval time.Duration
}

func NewSpinner(message string) *Spinner {
	return &Spinner{
		writer:   os.Stderr,
		frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		message:  message,
		Delay:    150 * time.Millisecond,
		Interval: 100 * time.Millisecond,
	}
}

// SetWriter sets a custom writer for the spinner
func (s *Spinner) SetWriter(w io.Writer) {
	s.writer = w
}

func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.drawn = false
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	s.wg.Add(1)
	go s.animate()
}

// Stop halts the animation and clears the line if anything was drawn.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawn {
		fmt.Fprint(s.writer, "\r\033[K")
	}
}

func (s *Spinner) animate() {
	defer s.wg.Done()

	select {
	case <-s.stopChan:
		return
	case <-time.After(s.Delay):
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		s.mu.Lock()
		frame := s.frames[s.frameIndex%len(s.frames)]
		s.frameIndex++
		s.drawn = true
		fmt.Fprintf(s.writer, "\r%s %s", frame, s.message)
		s.mu.Unlock()

		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
		}
	}
}

// Run calls fn, showing a spinner on stderr while it runs when enabled.
func Run(message string, enabled bool, fn func()) {
	if !enabled {
		fn()
		return
	}
	spinner := NewSpinner(message)
	spinner.Start()
	defer spinner.Stop()
	fn()
}
