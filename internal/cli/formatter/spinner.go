package formatter

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

const clearLine = "\r\033[K"

// Spinner animates a status message on one terminal line while a
// blocking call runs. It writes directly to out, outside any tea.Program.
type Spinner struct {
	out     io.Writer
	message string
	frames  spinner.Spinner

	once sync.Once
	stop chan struct{}
	done chan struct{}
}

func NewSpinner(out io.Writer, message string) *Spinner {
	return &Spinner{
		out:     out,
		message: message,
		frames:  spinner.MiniDot,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start draws the first frame immediately, then advances at the frame rate.
func (s *Spinner) Start() {
	go s.loop()
}

func (s *Spinner) loop() {
	defer close(s.done)
	ticker := time.NewTicker(s.frames.FPS)
	defer ticker.Stop()

	for i := 0; ; i++ {
		frame := s.frames.Frames[i%len(s.frames.Frames)]
		fmt.Fprintf(s.out, "\r  %s %s", StylePurple.Render(frame), Dim(s.message))
		select {
		case <-s.stop:
			fmt.Fprint(s.out, clearLine)
			return
		case <-ticker.C:
		}
	}
}

// Stop clears the line and waits for the goroutine launched by Start. Later calls
// return immediately.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.stop)
		<-s.done
	})
}

// StartSpinner starts a spinner on out and returns its Stop.
func StartSpinner(out io.Writer, message string) func() {
	s := NewSpinner(out, message)
	s.Start()
	return s.Stop
}
