// Package store holds the scan result of the current session and derives
// the metrics shown by the dependent views.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/threatflux/secureReviewGo/internal/models"
)

// Fetcher loads a scan result by id from the analysis service
type Fetcher interface {
	GetScan(ctx context.Context, scanID string) (*models.ScanResult, error)
}

// Store holds at most one scan result at a time
type Store struct {
	fetcher Fetcher
	logger  *logrus.Logger

	mu         sync.RWMutex
	current    *models.ScanResult
	generation uint64

	group singleflight.Group
}

// New creates an empty store. fetcher may be nil when no fallback fetch is
// possible; Resolve then only answers from memory.
func New(fetcher Fetcher, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Set replaces the held result. DeploymentReady is derived from the
// critical count regardless of what the service reported.
func (s *Store) Set(result *models.ScanResult) {
	if result == nil {
		s.Clear()
		return
	}

	s.normalize(result)

	s.mu.Lock()
	s.current = result
	s.generation++
	s.mu.Unlock()
}

// Clear drops the held result
func (s *Store) Clear() {
	s.mu.Lock()
	s.current = nil
	s.generation++
	s.mu.Unlock()
}

// Current returns the held result, if any
func (s *Store) Current() (*models.ScanResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != nil
}

// Get returns the held result when its id is scanID
func (s *Store) Get(scanID string) (*models.ScanResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil || s.current.ScanID != scanID {
		return nil, false
	}
	return s.current, true
}

// Resolve returns the result for scanID from memory or fetches it from the
// service and stores it. Concurrent calls for the same id share one fetch.
// A failed fetch leaves the store untouched.
func (s *Store) Resolve(ctx context.Context, scanID string) (*models.ScanResult, error) {
	if result, ok := s.Get(scanID); ok {
		return result, nil
	}
	if s.fetcher == nil {
		return nil, fmt.Errorf("scan %s is not loaded and no fetcher is configured", scanID)
	}

	s.mu.RLock()
	gen := s.generation
	s.mu.RUnlock()

	v, err, shared := s.group.Do(scanID, func() (interface{}, error) {
		s.logger.WithField("scan_id", scanID).Debug("Fetching scan result")
		result, err := s.fetcher.GetScan(ctx, scanID)
		if err != nil {
			return nil, err
		}
		if result.ScanID != scanID {
			return nil, fmt.Errorf("%w: requested scan %s, service returned %s", models.ErrInvariantViolation, scanID, result.ScanID)
		}
		s.normalize(result)
		return result, nil
	})
	if err != nil {
		s.logger.WithError(err).WithField("scan_id", scanID).Warn("Failed to fetch scan result")
		return nil, err
	}

	result := v.(*models.ScanResult)

	s.mu.Lock()
	defer s.mu.Unlock()
	// A newer write happened while fetching; keep it
	if s.generation != gen {
		s.logger.WithFields(logrus.Fields{"scan_id": scanID, "shared": shared}).Debug("Discarding fetched result superseded by a newer write")
		return result, nil
	}
	s.current = result
	s.generation++
	return result, nil
}

// SecurityPostureScore returns max(0, 100 - round(risk)) for the held result
func (s *Store) SecurityPostureScore(scanID string) (int, bool) {
	result, ok := s.Get(scanID)
	if !ok {
		return 0, false
	}
	return result.PostureScore(), true
}

// SeverityShare returns the share of findings at level, 0 when there are none
func (s *Store) SeverityShare(scanID string, level models.Severity) (float64, bool) {
	result, ok := s.Get(scanID)
	if !ok {
		return 0, false
	}
	return result.SeverityShare(level), true
}

// DeploymentReady reports whether the held result has no critical findings
func (s *Store) DeploymentReady(scanID string) (bool, bool) {
	result, ok := s.Get(scanID)
	if !ok {
		return false, false
	}
	return result.DeploymentReady, true
}

func (s *Store) normalize(result *models.ScanResult) {
	reported := result.DeploymentReady
	if result.Normalize() {
		s.logger.WithFields(logrus.Fields{
			"scan_id":        result.ScanID,
			"critical_count": result.CriticalCount,
			"reported":       reported,
		}).Warn("Service deployment_ready contradicts critical count, overriding")
	}
}
