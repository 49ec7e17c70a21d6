package disclosure

import (
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// Controller owns at most one process for a view. Starting a new reveal
// cancels the previous one.
type Controller struct {
	clock    clock.WithTicker
	interval time.Duration

	mu      sync.Mutex
	current *Process
	closed  bool
}

// NewController creates a controller. A nil clock uses the real clock.
func NewController(c clock.WithTicker, interval time.Duration) *Controller {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Controller{clock: c, interval: interval}
}

// Start cancels any running process and reveals total items from zero.
// It returns nil once the controller is closed.
func (c *Controller) Start(total int, onReveal func(visible int)) *Process {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	previous := c.current
	c.current = Reveal(total, c.interval, WithClock(c.clock), WithOnReveal(onReveal))
	started := c.current
	c.mu.Unlock()

	// a callback of previous may be reading Current; cancel it unlocked
	if previous != nil {
		previous.Cancel()
	}
	return started
}

// Current returns the running or last process, nil before the first Start
func (c *Controller) Current() *Process {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Cancel stops the current process. The process stays readable through
// Current so its frozen count can still be shown.
func (c *Controller) Cancel() {
	c.mu.Lock()
	p := c.current
	c.mu.Unlock()

	if p != nil {
		p.Cancel()
	}
}

// Close cancels the current process and makes every later Start a no-op
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	p := c.current
	c.mu.Unlock()

	if p != nil {
		p.Cancel()
	}
}

// Closed reports whether Close was called
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
