package worker

import (
	"sync"

	"golang.org/x/time/rate"
)

// ProgressFunc receives the number of completed units out of total.
type ProgressFunc func(done, total int)

// Progress reports completion counts from concurrent workers, throttled so
// long runs do not flood the terminal. The final update is always delivered.
type Progress struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	report  ProgressFunc
	done    int
	total   int
}

// NewProgress creates a reporter emitting at most perSecond updates
// (burst 1). A nil report function makes every call a no-op.
func NewProgress(total int, perSecond float64, report ProgressFunc) *Progress {
	if perSecond <= 0 {
		perSecond = 4
	}

	return &Progress{
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		report:  report,
		total:   total,
	}
}

// Add records n more completed units and reports if the limiter allows it.
func (p *Progress) Add(n int) {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.done += n
	if p.report == nil {
		return
	}
	if p.done >= p.total || p.limiter.Allow() {
		p.report(p.done, p.total)
	}
}

// Done returns the completed count so far.
func (p *Progress) Done() int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}
