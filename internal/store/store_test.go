package store

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/threatflux/secureReviewGo/internal/models"
)

// MockFetcher is a mock implementation of Fetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) GetScan(ctx context.Context, scanID string) (*models.ScanResult, error) {
	args := m.Called(ctx, scanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScanResult), args.Error(1)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func result(id string, critical int) *models.ScanResult {
	r := &models.ScanResult{ScanID: id, TotalIssues: critical, CriticalCount: critical, RiskScore: float64(10 * critical)}
	for i := 0; i < critical; i++ {
		r.Vulnerabilities = append(r.Vulnerabilities, models.Vulnerability{ID: "v", Type: "SQL_INJECTION", Severity: models.SeverityCritical, Title: "t"})
	}
	return r
}

func TestSetGetClear(t *testing.T) {
	s := New(nil, quietLogger())

	_, ok := s.Current()
	assert.False(t, ok)

	s.Set(result("a", 0))
	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", got.ScanID)

	_, ok = s.Get("b")
	assert.False(t, ok)

	// Only one result is held at a time
	s.Set(result("b", 0))
	_, ok = s.Get("a")
	assert.False(t, ok)
	_, ok = s.Get("b")
	assert.True(t, ok)

	s.Clear()
	_, ok = s.Current()
	assert.False(t, ok)

	s.Set(result("c", 0))
	s.Set(nil)
	_, ok = s.Current()
	assert.False(t, ok)
}

func TestSetEnforcesDeploymentReadiness(t *testing.T) {
	s := New(nil, quietLogger())

	r := result("crit", 1)
	r.DeploymentReady = true
	s.Set(r)

	ready, ok := s.DeploymentReady("crit")
	require.True(t, ok)
	assert.False(t, ready)

	clean := result("clean", 0)
	s.Set(clean)
	ready, ok = s.DeploymentReady("clean")
	require.True(t, ok)
	assert.True(t, ready)
}

func TestDerivedMetrics(t *testing.T) {
	s := New(nil, quietLogger())

	_, ok := s.SecurityPostureScore("none")
	assert.False(t, ok)

	s.Set(&models.ScanResult{ScanID: "empty", RiskScore: 0})
	score, ok := s.SecurityPostureScore("empty")
	require.True(t, ok)
	assert.Equal(t, 100, score)

	share, ok := s.SeverityShare("empty", models.SeverityCritical)
	require.True(t, ok)
	assert.Equal(t, 0.0, share)

	s.Set(result("two", 2))
	score, _ = s.SecurityPostureScore("two")
	assert.Equal(t, 80, score)
	share, _ = s.SeverityShare("two", models.SeverityCritical)
	assert.Equal(t, 1.0, share)
}

func TestResolveFromMemory(t *testing.T) {
	fetcher := new(MockFetcher)
	s := New(fetcher, quietLogger())
	s.Set(result("a", 0))

	got, err := s.Resolve(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ScanID)
	fetcher.AssertNotCalled(t, "GetScan", mock.Anything, mock.Anything)
}

func TestResolveFetchesAndStores(t *testing.T) {
	fetcher := new(MockFetcher)
	fetched := result("remote", 1)
	fetched.DeploymentReady = true
	fetcher.On("GetScan", mock.Anything, "remote").Return(fetched, nil).Once()

	s := New(fetcher, quietLogger())
	s.Set(result("local", 0))

	got, err := s.Resolve(context.Background(), "remote")
	require.NoError(t, err)
	assert.Equal(t, "remote", got.ScanID)
	assert.False(t, got.DeploymentReady)

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "remote", current.ScanID)

	// Second resolve hits memory
	_, err = s.Resolve(context.Background(), "remote")
	require.NoError(t, err)
	fetcher.AssertExpectations(t)
}

func TestResolveFailureLeavesStoreUntouched(t *testing.T) {
	fetchErr := errors.New("resource not found")
	fetcher := new(MockFetcher)
	fetcher.On("GetScan", mock.Anything, "missing").Return(nil, fetchErr)

	s := New(fetcher, quietLogger())
	s.Set(result("valid", 0))

	_, err := s.Resolve(context.Background(), "missing")
	assert.ErrorIs(t, err, fetchErr)

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "valid", current.ScanID)
}

func TestResolveRejectsMismatchedID(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("GetScan", mock.Anything, "a").Return(result("b", 0), nil)

	s := New(fetcher, quietLogger())
	_, err := s.Resolve(context.Background(), "a")
	assert.ErrorIs(t, err, models.ErrInvariantViolation)

	_, ok := s.Current()
	assert.False(t, ok)
}

func TestResolveWithoutFetcher(t *testing.T) {
	s := New(nil, quietLogger())
	_, err := s.Resolve(context.Background(), "a")
	assert.Error(t, err)
}

// blockingFetcher counts calls and waits for release before answering
type blockingFetcher struct {
	calls   int32
	started chan struct{}
	release chan struct{}
}

func (f *blockingFetcher) GetScan(ctx context.Context, scanID string) (*models.ScanResult, error) {
	if atomic.AddInt32(&f.calls, 1) == 1 {
		close(f.started)
	}
	<-f.release
	return result(scanID, 0), nil
}

func TestResolveCoalescesConcurrentFetches(t *testing.T) {
	fetcher := &blockingFetcher{started: make(chan struct{}), release: make(chan struct{})}
	s := New(fetcher, quietLogger())

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*models.ScanResult, callers)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = s.Resolve(context.Background(), "shared")
	}()
	<-fetcher.started

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = s.Resolve(context.Background(), "shared")
		}(i)
	}

	// Give the followers time to join the in-flight call
	time.Sleep(50 * time.Millisecond)
	close(fetcher.release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&fetcher.calls))
	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, "shared", r.ScanID)
	}
}

func TestResolveDoesNotOverwriteNewerWrite(t *testing.T) {
	fetcher := &blockingFetcher{started: make(chan struct{}), release: make(chan struct{})}
	s := New(fetcher, quietLogger())

	done := make(chan *models.ScanResult)
	go func() {
		r, _ := s.Resolve(context.Background(), "old")
		done <- r
	}()
	<-fetcher.started

	s.Set(result("new", 0))
	close(fetcher.release)

	r := <-done
	assert.Equal(t, "old", r.ScanID)

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "new", current.ScanID)
}
