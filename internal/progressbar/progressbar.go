// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ProgressBar implements a progress bar that must be manually managed.
// That is, Display must be called whenever an updated progress bar
// should be printed.
//
// ProgressBar does not use concurrency.
type ProgressBar struct {
	out             io.Writer
	width           float64
	maxProgress     float64
	currentProgress float64
	startTime       time.Time
}

// New returns a new ProgressBar that is width characters wide, reaches
// 100% after max calls to Increment, and prints to out
func New(out io.Writer, width, max int) *ProgressBar {
	if max < 1 {
		max = 1
	}
	return &ProgressBar{
		out:         out,
		width:       float64(width),
		maxProgress: float64(max),
		startTime:   time.Now(),
	}
}

// Increment increments the internal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ProgressBar) Increment() {
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
}

// Progress returns the fraction of iterations completed
func (p *ProgressBar) Progress() float64 {
	return p.currentProgress / p.maxProgress
}

// Display overwrites the current terminal line with the progress bar
func (p *ProgressBar) Display() {
	fmt.Fprintf(p.out, "\r\033[K%v", p)
}

// Close moves the terminal cursor past the progress bar
func (p *ProgressBar) Close() {
	fmt.Fprintln(p.out)
}

func (p *ProgressBar) String() string {
	var bar strings.Builder
	bar.WriteString("|")

	filled := int(p.Progress() * p.width)
	bar.WriteString(strings.Repeat("█", filled))
	bar.WriteString(strings.Repeat(" ", int(p.width)-filled))

	fmt.Fprintf(&bar, "| [%.2f%% | elapsed: %v]", p.Progress()*100,
		time.Since(p.startTime).Truncate(time.Second))

	return bar.String()
}
