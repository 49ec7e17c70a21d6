package workflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/threatflux/secureReviewGo/internal/handoff"
	"github.com/threatflux/secureReviewGo/internal/models"
	"github.com/threatflux/secureReviewGo/internal/navigation"
)

const (
	waitFor = time.Second
	pollAt  = 5 * time.Millisecond
)

func TestSimulationRevealStopsWhenLeft(t *testing.T) {
	svc := new(MockService)
	svc.On("GetAttackSimulation", mock.Anything, "scan-1").Return(fiveStageSimulation("scan-1"), nil)

	app, clk := newTestApp(svc)
	defer app.Close()

	entry, err := app.Navigate(navigation.AttackSimPath("scan-1"), nil)
	require.NoError(t, err)

	var mu sync.Mutex
	calls := 0
	view := app.OpenSimulation(context.Background(), entry, func(int) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	require.True(t, view.Ready())
	assert.Equal(t, 0, view.Visible())
	assert.Empty(t, view.RevealedStages())

	clk.Step(1500 * time.Millisecond)
	require.Eventually(t, func() bool { return view.Visible() == 1 }, waitFor, pollAt)
	clk.Step(1500 * time.Millisecond)
	require.Eventually(t, func() bool { return view.Visible() == 2 }, waitFor, pollAt)

	_, err = app.Navigate(navigation.DashboardPath("scan-1"), nil)
	require.NoError(t, err)
	require.True(t, view.Process().Canceled())

	for i := 0; i < 3; i++ {
		clk.Step(1500 * time.Millisecond)
	}
	assert.Never(t, func() bool { return view.Visible() != 2 }, 50*time.Millisecond, pollAt)

	stages := view.RevealedStages()
	require.Len(t, stages, 2)
	assert.Equal(t, "Exploitation", stages[1].Name)

	mu.Lock()
	assert.Equal(t, 2, calls)
	mu.Unlock()
}

func TestSimulationReplayAndClose(t *testing.T) {
	svc := new(MockService)
	app, clk := newTestApp(svc)

	entry, err := app.Navigate(navigation.AttackSimPath("scan-2"), handoff.With(*fiveStageSimulation("scan-2")))
	require.NoError(t, err)

	view := app.OpenSimulation(context.Background(), entry, nil)
	require.True(t, view.Ready())
	assert.Equal(t, handoff.SourceHandoff, view.Source)

	clk.Step(1500 * time.Millisecond)
	require.Eventually(t, func() bool { return view.Visible() == 1 }, waitFor, pollAt)

	first := view.Process()
	replay := view.Replay(nil)
	require.NotNil(t, replay)
	assert.True(t, first.Canceled())
	assert.Equal(t, 0, view.Visible())

	app.Close()
	assert.True(t, replay.Canceled())
	svc.AssertNotCalled(t, "GetAttackSimulation", mock.Anything, mock.Anything)
}

func TestSimulationReopenReplacesPreviousView(t *testing.T) {
	svc := new(MockService)
	svc.On("GetAttackSimulation", mock.Anything, mock.Anything).Return(fiveStageSimulation("scan-3"), nil)

	app, _ := newTestApp(svc)
	defer app.Close()

	entry, err := app.Navigate(navigation.AttackSimPath("scan-3"), nil)
	require.NoError(t, err)
	first := app.OpenSimulation(context.Background(), entry, nil)
	second := app.OpenSimulation(context.Background(), app.Navigator().Reload(), nil)

	assert.True(t, first.Process().Canceled())
	assert.False(t, second.Process().Canceled())
}

func TestSimulationNotAvailable(t *testing.T) {
	svc := new(MockService)
	svc.On("GetAttackSimulation", mock.Anything, "missing").Return(nil, errNotFound)

	app, _ := newTestApp(svc)
	defer app.Close()

	entry, err := app.Navigate(navigation.AttackSimPath("missing"), nil)
	require.NoError(t, err)

	view := app.OpenSimulation(context.Background(), entry, nil)
	assert.Equal(t, handoff.StatusNotAvailable, view.Status)
	assert.Nil(t, view.Process())
	assert.Nil(t, view.Replay(nil))
	assert.Equal(t, 0, view.Visible())
	assert.Empty(t, view.RevealedStages())
}

func TestSimulationWithNoStages(t *testing.T) {
	app, _ := newTestApp(new(MockService))
	defer app.Close()

	entry, err := app.Navigate(navigation.AttackSimPath("empty"), handoff.With(models.AttackSimulation{ScanID: "empty"}))
	require.NoError(t, err)

	view := app.OpenSimulation(context.Background(), entry, nil)
	require.True(t, view.Ready())
	require.Eventually(t, func() bool { return view.Process().Complete() }, waitFor, pollAt)
	assert.Equal(t, 0, view.Visible())
}

func TestSimulationReplayAfterTeardown(t *testing.T) {
	app, clk := newTestApp(new(MockService))
	defer app.Close()

	entry, err := app.Navigate(navigation.AttackSimPath("scan-4"), handoff.With(*fiveStageSimulation("scan-4")))
	require.NoError(t, err)
	view := app.OpenSimulation(context.Background(), entry, nil)
	require.True(t, view.Ready())

	_, err = app.Navigate(navigation.DashboardPath("scan-4"), nil)
	require.NoError(t, err)
	first := view.Process()
	require.True(t, first.Canceled())

	assert.Nil(t, view.Replay(nil))
	assert.Same(t, first, view.Process())

	view.Close()
	for i := 0; i < 5; i++ {
		clk.Step(1500 * time.Millisecond)
	}
	assert.Never(t, func() bool { return view.Visible() != 0 }, 50*time.Millisecond, pollAt)
}

func TestSimulationReplayAfterClose(t *testing.T) {
	app, _ := newTestApp(new(MockService))
	defer app.Close()

	entry, err := app.Navigate(navigation.AttackSimPath("scan-5"), handoff.With(*fiveStageSimulation("scan-5")))
	require.NoError(t, err)
	view := app.OpenSimulation(context.Background(), entry, nil)
	require.True(t, view.Ready())

	view.Close()
	view.Close()
	assert.True(t, view.Process().Canceled())
	assert.Nil(t, view.Replay(nil))
}
