// Package disclosure drives the timed, cancelable reveal of an ordered
// sequence. It only counts; what is revealed is up to the caller.
package disclosure

import (
	"sync"
	"sync/atomic"
	"time"

	"k8s.io/utils/clock"
)

// DefaultInterval is the delay between two reveals
const DefaultInterval = 1500 * time.Millisecond

// Option configures a reveal
type Option func(*options)

type options struct {
	clock    clock.WithTicker
	onReveal func(visible int)
}

// WithClock sets the clock driving the ticker
func WithClock(c clock.WithTicker) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithOnReveal registers a callback run on the process goroutine after each
// increment. The callback runs while the process lock is held, so it must not
// call Cancel on its own process. Reading the process or its Controller is safe.
func WithOnReveal(fn func(visible int)) Option {
	return func(o *options) {
		o.onReveal = fn
	}
}

// Process is one running reveal. The visible count goes from 0 to Total,
// one step per tick, and never moves backwards.
type Process struct {
	total    int
	interval time.Duration

	visible atomic.Int64

	mu       sync.Mutex
	canceled bool
	onReveal func(visible int)

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Reveal starts a process over total items. A non-positive interval uses
// DefaultInterval. With total <= 0 the process is finished immediately.
func Reveal(total int, interval time.Duration, opts ...Option) *Process {
	o := options{clock: clock.RealClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if total < 0 {
		total = 0
	}

	p := &Process{
		total:    total,
		interval: interval,
		onReveal: o.onReveal,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	if total == 0 {
		close(p.done)
		return p
	}

	ticker := o.clock.NewTicker(interval)
	go p.run(ticker)
	return p
}

func (p *Process) run(ticker clock.Ticker) {
	defer close(p.done)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C():
			if !p.step() {
				return
			}
		}
	}
}

// step reveals one more item. It returns false once the process must end.
func (p *Process) step() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.canceled {
		return false
	}
	n := int(p.visible.Add(1))
	if p.onReveal != nil {
		p.onReveal(n)
	}
	return n < p.total
}

// Cancel stops the process. After Cancel returns no further increment or
// callback happens. Cancel is idempotent.
func (p *Process) Cancel() {
	p.mu.Lock()
	p.canceled = true
	p.onReveal = nil
	p.mu.Unlock()

	p.stopOnce.Do(func() { close(p.stop) })
}

// Visible returns the number of revealed items
func (p *Process) Visible() int {
	return int(p.visible.Load())
}

// Total returns the number of items to reveal
func (p *Process) Total() int {
	return p.total
}

// Interval returns the delay between reveals
func (p *Process) Interval() time.Duration {
	return p.interval
}

// Complete reports whether every item has been revealed
func (p *Process) Complete() bool {
	return p.Visible() >= p.total
}

// Canceled reports whether Cancel was called
func (p *Process) Canceled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.canceled
}

// Done is closed once the ticker is released, either on completion or cancel
func (p *Process) Done() <-chan struct{} {
	return p.done
}
