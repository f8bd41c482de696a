// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// ProgressBar implements a concurrent progress bar. Increment may be
// called from many goroutines, and the bar is redrawn on its own
// goroutine after Display is called.
type ProgressBar struct {
	out         io.Writer
	width       float64
	maxProgress float64
	updateEvery time.Duration

	mu              sync.Mutex
	currentProgress float64
	startTime       time.Time

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewProgressBar returns a new progress bar that is width characters
// wide and reaches 100% capacity after max Increment() calls. Once
// displayed, the bar is redrawn to out every updateEvery.
func NewProgressBar(out io.Writer, width, max int,
	updateEvery time.Duration) *ProgressBar {
	return &ProgressBar{
		out:         out,
		width:       float64(width),
		maxProgress: float64(max),
		updateEvery: updateEvery,
		startTime:   time.Now(),
		done:        make(chan struct{}),
	}
}

// Increment increments the interal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ProgressBar) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
}

// Progress returns the fraction of the work done, in [0, 1]
func (p *ProgressBar) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentProgress / p.maxProgress
}

// String returns the progress bar as it would be drawn
func (p *ProgressBar) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return draw(p.width, p.currentProgress, p.maxProgress,
		time.Since(p.startTime))
}

// Display starts redrawing the progress bar. It should only be called
// once.
func (p *ProgressBar) Display() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		tick := time.NewTicker(p.updateEvery)
		defer tick.Stop()

		for {
			select {
			case <-tick.C:
				fmt.Fprintf(p.out, "\n\033[1A\033[K%v", p)
			case <-p.done:
				return
			}
		}
	}()
}

// Close stops redrawing the progress bar, draws it a final time, and
// moves to the next line. Close may be called multiple times.
func (p *ProgressBar) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.wg.Wait()
		fmt.Fprintf(p.out, "\n\033[1A\033[K%v\n", p)
	})
}

// draw returns a progress bar width characters wide
func draw(width, current, max float64, elapsed time.Duration) string {
	var bar strings.Builder
	bar.WriteString("|")

	currentProg := current / max * width
	for i := 0.0; i < currentProg; i++ {
		bar.WriteString("█")
	}
	for i := currentProg; i < width; i++ {
		bar.WriteString(" ")
	}
	bar.WriteString(fmt.Sprintf("| [%.2f%v | elapsed: %v]",
		current/max*100, "%", elapsed.Truncate(time.Second)))

	return bar.String()
}
