package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/threatflux/secureReviewGo/internal/models"
	"github.com/threatflux/secureReviewGo/internal/store"
	"github.com/threatflux/secureReviewGo/pkg/client"
)

// MockSubmitter is a mock implementation of Submitter
type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) AnalyzeScan(ctx context.Context, req *models.ScanRequest) (*models.ScanResult, error) {
	args := m.Called(ctx, req)
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

func pythonRequest(code string) *models.ScanRequest {
	return &models.ScanRequest{
		Code:           code,
		Language:       models.LanguagePython,
		ProjectContext: models.ProjectEnterprise,
		ScanProfile:    models.ProfileFast,
	}
}

func cleanResult(id string) *models.ScanResult {
	return &models.ScanResult{ScanID: id, DeploymentReady: true}
}

func newTestMachine(sub Submitter) (*Machine, *store.Store) {
	st := store.New(nil, quietLogger())
	return NewMachine(sub, st, quietLogger()), st
}

func TestSubmitSucceeds(t *testing.T) {
	sub := new(MockSubmitter)
	sub.On("AnalyzeScan", mock.Anything, mock.MatchedBy(func(r *models.ScanRequest) bool {
		return r.Code == "print(1)" && r.Language == models.LanguagePython
	})).Return(cleanResult("scan-1"), nil).Once()

	m, st := newTestMachine(sub)

	var transitions []State
	m.OnStateChange(func(oldState, newState State) {
		transitions = append(transitions, newState)
	})

	assert.Equal(t, StateIdle, m.State())

	result, err := m.Submit(context.Background(), pythonRequest("print(1)"))
	require.NoError(t, err)
	assert.Equal(t, "scan-1", result.ScanID)

	assert.Equal(t, []State{StateSubmitting, StateSucceeded}, transitions)
	assert.Equal(t, StateSucceeded, m.State())
	assert.False(t, m.IsSubmitting())
	assert.NoError(t, m.LastError())

	stored, ok := st.Get("scan-1")
	require.True(t, ok)
	assert.Equal(t, "scan-1", stored.ScanID)

	got, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, result, got)
	sub.AssertExpectations(t)
}

func TestSubmitEmptyCodeIsRejectedLocally(t *testing.T) {
	sub := new(MockSubmitter)
	m, _ := newTestMachine(sub)

	called := false
	m.OnStateChange(func(State, State) { called = true })

	for _, code := range []string{"", "   ", "\n\t"} {
		_, err := m.Submit(context.Background(), pythonRequest(code))
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, StateIdle, m.State())
	}

	_, err := m.Submit(context.Background(), nil)
	assert.ErrorIs(t, err, ErrValidation)

	assert.False(t, called)
	assert.NoError(t, m.LastError())
	sub.AssertNotCalled(t, "AnalyzeScan", mock.Anything, mock.Anything)
}

func TestSubmitEnforcesDeploymentReadiness(t *testing.T) {
	sub := new(MockSubmitter)
	contradicting := &models.ScanResult{
		ScanID:          "scan-crit",
		TotalIssues:     1,
		CriticalCount:   1,
		RiskScore:       10,
		DeploymentReady: true,
		Vulnerabilities: []models.Vulnerability{
			{ID: "SQL_INJECTION_1", Type: "SQL_INJECTION", Severity: models.SeverityCritical, Title: "SQL Injection", ConfidenceScore: 0.92},
		},
	}
	sub.On("AnalyzeScan", mock.Anything, mock.Anything).Return(contradicting, nil)

	m, st := newTestMachine(sub)
	result, err := m.Submit(context.Background(), pythonRequest("query = 'SELECT * FROM users WHERE id = ' + user_id"))
	require.NoError(t, err)
	assert.False(t, result.DeploymentReady)

	ready, ok := st.DeploymentReady("scan-crit")
	require.True(t, ok)
	assert.False(t, ready)
}

func TestSubmitInconsistentCountsFails(t *testing.T) {
	sub := new(MockSubmitter)
	sub.On("AnalyzeScan", mock.Anything, mock.Anything).Return(&models.ScanResult{
		ScanID:        "scan-bad",
		TotalIssues:   3,
		CriticalCount: 1,
	}, nil)

	m, st := newTestMachine(sub)
	_, err := m.Submit(context.Background(), pythonRequest("print(1)"))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvariantViolation)
	assert.ErrorIs(t, err, client.ErrServiceError)
	assert.Equal(t, StateFailed, m.State())
	assert.ErrorIs(t, m.LastError(), models.ErrInvariantViolation)

	_, ok := st.Current()
	assert.False(t, ok)
}

func TestSubmitEmptyResultIsServiceError(t *testing.T) {
	sub := new(MockSubmitter)
	sub.On("AnalyzeScan", mock.Anything, mock.Anything).Return(nil, nil)

	m, _ := newTestMachine(sub)
	_, err := m.Submit(context.Background(), pythonRequest("print(1)"))
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrServiceError)
	assert.ErrorIs(t, err, models.ErrInvariantViolation)
	assert.Equal(t, StateFailed, m.State())
}

func TestSubmitServiceFailure(t *testing.T) {
	serviceErr := errors.New("analysis service error: status 500: Analysis failed")
	sub := new(MockSubmitter)
	sub.On("AnalyzeScan", mock.Anything, mock.Anything).Return(nil, serviceErr).Once()

	m, _ := newTestMachine(sub)
	_, err := m.Submit(context.Background(), pythonRequest("print(1)"))
	assert.ErrorIs(t, err, serviceErr)
	assert.Equal(t, StateFailed, m.State())
	assert.Equal(t, serviceErr, m.LastError())

	_, ok := m.Result()
	assert.False(t, ok)
	sub.AssertNumberOfCalls(t, "AnalyzeScan", 1)
}

func TestResubmitDiscardsPreviousResult(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})

	sub := new(MockSubmitter)
	sub.On("AnalyzeScan", mock.Anything, mock.Anything).Return(cleanResult("first"), nil).Once()
	sub.On("AnalyzeScan", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(cleanResult("second"), nil).Once()

	m, st := newTestMachine(sub)
	_, err := m.Submit(context.Background(), pythonRequest("print(1)"))
	require.NoError(t, err)

	done := make(chan error)
	go func() {
		_, err := m.Submit(context.Background(), pythonRequest("print(2)"))
		done <- err
	}()
	<-entered

	assert.True(t, m.IsSubmitting())
	_, ok := st.Current()
	assert.False(t, ok, "previous result must not be shown while submitting")
	_, ok = m.Result()
	assert.False(t, ok)

	close(release)
	require.NoError(t, <-done)

	current, ok := st.Current()
	require.True(t, ok)
	assert.Equal(t, "second", current.ScanID)
}

func TestSubmitWhileInFlightIsRejected(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})

	sub := new(MockSubmitter)
	sub.On("AnalyzeScan", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(cleanResult("scan-1"), nil).Once()

	m, _ := newTestMachine(sub)

	var mu sync.Mutex
	var transitions []State
	m.OnStateChange(func(_, newState State) {
		mu.Lock()
		transitions = append(transitions, newState)
		mu.Unlock()
	})

	done := make(chan error)
	go func() {
		_, err := m.Submit(context.Background(), pythonRequest("print(1)"))
		done <- err
	}()
	<-entered

	for i := 0; i < 3; i++ {
		_, err := m.Submit(context.Background(), pythonRequest("print(2)"))
		assert.ErrorIs(t, err, ErrSubmissionInFlight)
		assert.Equal(t, StateSubmitting, m.State())
	}

	close(release)
	require.NoError(t, <-done)

	sub.AssertNumberOfCalls(t, "AnalyzeScan", 1)
	mu.Lock()
	assert.Equal(t, []State{StateSubmitting, StateSucceeded}, transitions)
	mu.Unlock()
}

func TestFailedAllowsNewSubmission(t *testing.T) {
	sub := new(MockSubmitter)
	sub.On("AnalyzeScan", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused")).Once()
	sub.On("AnalyzeScan", mock.Anything, mock.Anything).Return(cleanResult("retry-by-user"), nil).Once()

	m, _ := newTestMachine(sub)
	_, err := m.Submit(context.Background(), pythonRequest("print(1)"))
	require.Error(t, err)
	assert.Equal(t, StateFailed, m.State())

	_, err = m.Submit(context.Background(), pythonRequest("print(1)"))
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, m.State())
	assert.NoError(t, m.LastError())
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StateIdle, StateSubmitting))
	assert.True(t, CanTransition(StateSubmitting, StateSucceeded))
	assert.True(t, CanTransition(StateSubmitting, StateFailed))
	assert.True(t, CanTransition(StateSucceeded, StateSubmitting))
	assert.True(t, CanTransition(StateFailed, StateSubmitting))

	assert.False(t, CanTransition(StateIdle, StateSucceeded))
	assert.False(t, CanTransition(StateSubmitting, StateSubmitting))
	assert.False(t, CanTransition(StateSucceeded, StateIdle))
	assert.False(t, CanTransition(StateFailed, StateSucceeded))
}
