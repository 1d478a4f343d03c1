package reembed

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker prints a single, carriage-return refreshed progress line.
// Calls made before Start are ignored.
type ProgressTracker struct {
	mu       sync.Mutex
	out      io.Writer
	total    int
	interval int

	done      int
	printedAt int
	began     time.Time
}

// NewProgressTracker prints to out once at least interval summaries have
// completed since the previous line.
func NewProgressTracker(out io.Writer, total, interval int) *ProgressTracker {
	return &ProgressTracker{out: out, total: total, interval: interval}
}

func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.began = time.Now()
	p.done = 0
	p.printedAt = 0
}

// Update records that current summaries have completed in total.
func (p *ProgressTracker) Update(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance(current)
}

func (p *ProgressTracker) Increment(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance(p.done + delta)
}

// Finish prints the completed line followed by a newline.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.began.IsZero() {
		return
	}
	p.done = p.total
	p.print()
	fmt.Fprintln(p.out)
}

func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.began.IsZero() {
		return 0
	}
	return time.Since(p.began)
}

func (p *ProgressTracker) advance(current int) {
	if p.began.IsZero() {
		return
	}
	p.done = min(current, p.total)
	if p.done-p.printedAt >= p.interval {
		p.print()
		p.printedAt = p.done
	}
}

func (p *ProgressTracker) print() {
	var pct float64
	if p.total > 0 {
		pct = 100 * float64(p.done) / float64(p.total)
	}
	rate := float64(p.done) / time.Since(p.began).Seconds()
	fmt.Fprintf(p.out, "\rProgress: %d/%d (%.1f%%) - %.1f summaries/s", p.done, p.total, pct, rate)
}
