// Package session implements the lifecycle of one scan submission:
// Idle -> Submitting -> Succeeded | Failed.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/threatflux/secureReviewGo/internal/models"
	"github.com/threatflux/secureReviewGo/pkg/client"
)

// State is a scan session state
type State string

const (
	// StateIdle is the initial state
	StateIdle State = "idle"
	// StateSubmitting means one analysis request is in flight
	StateSubmitting State = "submitting"
	// StateSucceeded means the last submission produced a result
	StateSucceeded State = "succeeded"
	// StateFailed means the last submission failed
	StateFailed State = "failed"
)

// ValidStateTransitions defines the valid state transitions of a session
var ValidStateTransitions = map[State][]State{
	StateIdle:       {StateSubmitting},
	StateSubmitting: {StateSucceeded, StateFailed},
	StateSucceeded:  {StateSubmitting},
	StateFailed:     {StateSubmitting},
}

var (
	// ErrValidation is returned when a submission is rejected locally
	ErrValidation = errors.New("validation error")
	// ErrSubmissionInFlight is returned when a scan is already being submitted
	ErrSubmissionInFlight = errors.New("a scan submission is already in flight")
	// ErrInvalidStateTransition is returned when a state transition is invalid
	ErrInvalidStateTransition = errors.New("invalid session state transition")
)

// CanTransition reports whether from -> to is allowed
func CanTransition(from, to State) bool {
	for _, s := range ValidStateTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Submitter sends a scan request to the analysis service
type Submitter interface {
	AnalyzeScan(ctx context.Context, req *models.ScanRequest) (*models.ScanResult, error)
}

// ResultStore receives the result of a successful submission
type ResultStore interface {
	Set(result *models.ScanResult)
	Clear()
}

// StateChangeHandler is called after every transition
type StateChangeHandler func(oldState, newState State)

// Machine is the scan session state machine. At most one submission is in
// flight at a time.
type Machine struct {
	submitter Submitter
	store     ResultStore
	logger    *logrus.Logger

	mu       sync.RWMutex
	state    State
	lastErr  error
	result   *models.ScanResult
	handlers []StateChangeHandler
}

// NewMachine creates a machine in the Idle state
func NewMachine(submitter Submitter, store ResultStore, logger *logrus.Logger) *Machine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Machine{
		submitter: submitter,
		store:     store,
		logger:    logger,
		state:     StateIdle,
	}
}

// OnStateChange registers a handler notified after each transition
func (m *Machine) OnStateChange(handler StateChangeHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, handler)
}

// State returns the current state
func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsSubmitting reports whether a submission is in flight
func (m *Machine) IsSubmitting() bool {
	return m.State() == StateSubmitting
}

// LastError returns the error of the last failed submission
func (m *Machine) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// Result returns the result of the last successful submission
func (m *Machine) Result() (*models.ScanResult, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.result, m.result != nil
}

// Submit runs one analysis request. Empty code is rejected with
// ErrValidation and a second call while submitting with
// ErrSubmissionInFlight; neither changes state nor reaches the network.
// There is no retry: a failure moves the machine to Failed. A missing or
// inconsistent result wraps client.ErrServiceError.
func (m *Machine) Submit(ctx context.Context, req *models.ScanRequest) (*models.ScanResult, error) {
	if req == nil || strings.TrimSpace(req.Code) == "" {
		m.logger.Debug("Rejected scan submission with empty code")
		return nil, fmt.Errorf("%w: please enter or upload code to analyze", ErrValidation)
	}

	if err := m.begin(); err != nil {
		return nil, err
	}

	log := m.logger.WithFields(logrus.Fields{
		"language":        req.Language,
		"project_context": req.ProjectContext,
		"scan_profile":    req.ScanProfile,
		"code_length":     len(req.Code),
	})
	log.Info("Submitting scan")

	result, err := m.submitter.AnalyzeScan(ctx, req)
	if err == nil {
		if result == nil {
			err = fmt.Errorf("%w: empty scan result", models.ErrInvariantViolation)
		} else {
			err = result.Validate()
		}
		if err != nil && !errors.Is(err, client.ErrServiceError) {
			err = fmt.Errorf("%w: %w", client.ErrServiceError, err)
		}
	}
	if err != nil {
		log.WithError(err).Error("Scan failed")
		m.finish(StateFailed, nil, err)
		return nil, err
	}

	if m.store != nil {
		m.store.Set(result)
	} else {
		result.Normalize()
	}

	log.WithFields(logrus.Fields{
		"scan_id":      result.ScanID,
		"total_issues": result.TotalIssues,
	}).Info("Scan complete")
	m.finish(StateSucceeded, result, nil)
	return result, nil
}

// begin enters Submitting under the lock, discarding the previous result
func (m *Machine) begin() error {
	m.mu.Lock()
	if m.state == StateSubmitting {
		m.mu.Unlock()
		return ErrSubmissionInFlight
	}
	old := m.state
	if !CanTransition(old, StateSubmitting) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, old, StateSubmitting)
	}
	m.state = StateSubmitting
	m.result = nil
	m.lastErr = nil
	if m.store != nil {
		m.store.Clear()
	}
	handlers := m.snapshotHandlers()
	m.mu.Unlock()

	m.notify(handlers, old, StateSubmitting)
	return nil
}

func (m *Machine) finish(next State, result *models.ScanResult, err error) {
	m.mu.Lock()
	old := m.state
	if !CanTransition(old, next) {
		m.mu.Unlock()
		m.logger.WithFields(logrus.Fields{"from": old, "to": next}).Error("Invalid session state transition")
		return
	}
	m.state = next
	m.result = result
	m.lastErr = err
	handlers := m.snapshotHandlers()
	m.mu.Unlock()

	m.notify(handlers, old, next)
}

func (m *Machine) snapshotHandlers() []StateChangeHandler {
	handlers := make([]StateChangeHandler, len(m.handlers))
	copy(handlers, m.handlers)
	return handlers
}

func (m *Machine) notify(handlers []StateChangeHandler, oldState, newState State) {
	m.logger.WithFields(logrus.Fields{
		"old_state": oldState,
		"new_state": newState,
	}).Debug("Session state changed")
	for _, h := range handlers {
		h(oldState, newState)
	}
}
