package disclosure

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

const (
	waitFor = time.Second
	pollAt  = 5 * time.Millisecond
)

func newFakeClock() *testingclock.FakeClock {
	return testingclock.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
}

// tick advances the clock by one interval and waits for the expected count
func tick(t *testing.T, clk *testingclock.FakeClock, p *Process, want int) {
	t.Helper()
	clk.Step(p.Interval())
	require.Eventually(t, func() bool { return p.Visible() == want }, waitFor, pollAt)
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestRevealRunsToCompletion(t *testing.T) {
	clk := newFakeClock()

	var mu sync.Mutex
	var seen []int
	p := Reveal(3, time.Second, WithClock(clk), WithOnReveal(func(n int) {
		mu.Lock()
		seen = append(seen, n)
		mu.Unlock()
	}))

	assert.Equal(t, 0, p.Visible())
	assert.Equal(t, 3, p.Total())

	tick(t, clk, p, 1)
	tick(t, clk, p, 2)
	tick(t, clk, p, 3)

	require.Eventually(t, func() bool { return isClosed(p.Done()) }, waitFor, pollAt)
	assert.True(t, p.Complete())
	assert.False(t, p.Canceled())

	// No overshoot once complete
	for i := 0; i < 3; i++ {
		clk.Step(time.Second)
	}
	assert.Never(t, func() bool { return p.Visible() != 3 }, 50*time.Millisecond, pollAt)

	mu.Lock()
	assert.Equal(t, []int{1, 2, 3}, seen)
	mu.Unlock()
}

func TestRevealWaitsForFullInterval(t *testing.T) {
	clk := newFakeClock()
	p := Reveal(2, DefaultInterval, WithClock(clk))
	defer p.Cancel()

	clk.Step(DefaultInterval - time.Millisecond)
	assert.Never(t, func() bool { return p.Visible() != 0 }, 50*time.Millisecond, pollAt)

	clk.Step(time.Millisecond)
	require.Eventually(t, func() bool { return p.Visible() == 1 }, waitFor, pollAt)
}

// A five stage simulation revealed every 1500ms and canceled after two ticks
// stays at two and releases its ticker.
func TestRevealCancelFreezesCount(t *testing.T) {
	clk := newFakeClock()

	var mu sync.Mutex
	calls := 0
	p := Reveal(5, 1500*time.Millisecond, WithClock(clk), WithOnReveal(func(int) {
		mu.Lock()
		calls++
		mu.Unlock()
	}))

	tick(t, clk, p, 1)
	tick(t, clk, p, 2)

	p.Cancel()
	assert.True(t, p.Canceled())
	require.Eventually(t, func() bool { return isClosed(p.Done()) }, waitFor, pollAt)

	for i := 0; i < 10; i++ {
		clk.Step(1500 * time.Millisecond)
	}
	assert.Never(t, func() bool { return p.Visible() != 2 }, 100*time.Millisecond, pollAt)

	mu.Lock()
	assert.Equal(t, 2, calls)
	mu.Unlock()

	// Cancel is idempotent
	p.Cancel()
}

func TestRevealRestartsFromZero(t *testing.T) {
	clk := newFakeClock()

	first := Reveal(5, time.Second, WithClock(clk))
	tick(t, clk, first, 1)
	tick(t, clk, first, 2)
	first.Cancel()
	<-first.Done()

	second := Reveal(5, time.Second, WithClock(clk))
	defer second.Cancel()
	assert.Equal(t, 0, second.Visible())
	tick(t, clk, second, 1)
	assert.Equal(t, 2, first.Visible())
}

func TestRevealEmptySequence(t *testing.T) {
	p := Reveal(0, time.Second, WithClock(newFakeClock()))
	assert.True(t, isClosed(p.Done()))
	assert.True(t, p.Complete())
	assert.Equal(t, 0, p.Visible())

	p = Reveal(-3, time.Second)
	assert.Equal(t, 0, p.Total())
	assert.True(t, isClosed(p.Done()))
}

func TestRevealDefaultInterval(t *testing.T) {
	p := Reveal(1, 0, WithClock(newFakeClock()))
	defer p.Cancel()
	assert.Equal(t, DefaultInterval, p.Interval())
}

func TestControllerReplacesProcess(t *testing.T) {
	clk := newFakeClock()
	c := NewController(clk, time.Second)

	first := c.Start(5, nil)
	tick(t, clk, first, 1)

	second := c.Start(5, nil)
	assert.True(t, first.Canceled())
	require.Eventually(t, func() bool { return isClosed(first.Done()) }, waitFor, pollAt)
	assert.Same(t, second, c.Current())
	assert.Equal(t, 0, second.Visible())

	c.Cancel()
	assert.True(t, second.Canceled())
	assert.Same(t, second, c.Current())

	// Canceling with nothing running is a no-op
	NewController(nil, 0).Cancel()
}

func TestControllerClosedRejectsStart(t *testing.T) {
	clk := newFakeClock()
	c := NewController(clk, time.Second)

	running := c.Start(5, nil)
	tick(t, clk, running, 1)

	c.Close()
	assert.True(t, c.Closed())
	assert.True(t, running.Canceled())
	assert.Nil(t, c.Start(5, nil))
	assert.Same(t, running, c.Current())

	for i := 0; i < 5; i++ {
		clk.Step(time.Second)
	}
	assert.Never(t, func() bool { return running.Visible() != 1 }, 50*time.Millisecond, pollAt)

	c.Close()
	assert.True(t, c.Closed())
}

func TestControllerStartWhileCallbackReadsCurrent(t *testing.T) {
	clk := newFakeClock()
	c := NewController(clk, time.Second)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	first := c.Start(5, func(int) {
		once.Do(func() { close(entered) })
		<-release
		_ = c.Current().Visible()
	})

	clk.Step(time.Second)
	<-entered

	restarted := make(chan *Process, 1)
	go func() { restarted <- c.Start(5, nil) }()

	// let Start reach the cancel of the blocked process
	time.Sleep(20 * time.Millisecond)
	close(release)

	select {
	case second := <-restarted:
		require.NotNil(t, second)
		assert.True(t, first.Canceled())
		assert.Same(t, second, c.Current())
	case <-time.After(waitFor):
		t.Fatal("Start blocked on a callback reading the controller")
	}
}
