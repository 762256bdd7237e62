package fetch

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker prints a single, self-overwriting status line for a batch
// of upstream requests. A nil *ProgressTracker is valid and reports nothing.
type ProgressTracker struct {
	mu     sync.Mutex
	w      io.Writer
	label  string
	total  int
	done   int
	failed int
	every  time.Duration
	start  time.Time
	last   time.Time
}

// NewProgressTracker creates a tracker for total requests. The status line is
// rewritten at most once per every, and always when the batch completes.
func NewProgressTracker(w io.Writer, label string, total int, every time.Duration) *ProgressTracker {
	return &ProgressTracker{
		w:     w,
		label: label,
		total: total,
		every: every,
		start: time.Now(),
	}
}

// Record counts one finished request.
func (p *ProgressTracker) Record(err error) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.failed++
	} else {
		p.done++
	}

	now := time.Now()
	if p.done+p.failed >= p.total || now.Sub(p.last) >= p.every {
		p.last = now
		p.print(now)
	}
}

// Finish prints the final status and ends the line.
func (p *ProgressTracker) Finish() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.print(time.Now())
	fmt.Fprintln(p.w)
}

// Done returns the number of successful requests.
func (p *ProgressTracker) Done() int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Failed returns the number of failed requests.
func (p *ProgressTracker) Failed() int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}

// print writes the status line. Caller holds the lock.
func (p *ProgressTracker) print(now time.Time) {
	finished := p.done + p.failed
	pct := 100.0
	if p.total > 0 {
		pct = float64(finished) / float64(p.total) * 100
	}
	perSec := 0.0
	if elapsed := now.Sub(p.start).Seconds(); elapsed > 0 {
		perSec = float64(finished) / elapsed
	}

	fmt.Fprintf(p.w, "\r%s: %d/%d (%.0f%%)", p.label, finished, p.total, pct)
	if p.failed > 0 {
		fmt.Fprintf(p.w, ", %d failed", p.failed)
	}
	fmt.Fprintf(p.w, " %.1f req/s", perSec)
}
