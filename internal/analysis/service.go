package analysis

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/threatflux/secureReviewGo/internal/database/repositories"
	"github.com/threatflux/secureReviewGo/internal/models"
)

var (
	// ErrInvalidRequest is returned for scan requests that fail validation
	ErrInvalidRequest = errors.New("invalid scan request")
	// ErrScanNotFound is returned when no stored scan has the requested id
	ErrScanNotFound = errors.New("scan not found")
)

// Service analyzes code and answers the dependent views from stored scans
type Service struct {
	repo   repositories.ScanRepository
	rules  []Rule
	clock  clock.PassiveClock
	logger *logrus.Logger
}

// NewService creates a Service backed by repo. A nil clock uses wall time.
func NewService(repo repositories.ScanRepository, clk clock.PassiveClock, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Service{
		repo:   repo,
		rules:  DefaultRules,
		clock:  clk,
		logger: logger,
	}
}

// Analyze runs detection over req.Code, explains each finding and stores the result
func (s *Service) Analyze(ctx context.Context, req *models.ScanRequest) (*models.ScanResult, error) {
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(ErrInvalidRequest, err.Error())
	}

	findings := Detect(req.Code, s.rules)
	if len(findings) > MaxFindings {
		s.logger.WithFields(logrus.Fields{
			"found":    len(findings),
			"reported": MaxFindings,
		}).Debug("Truncating findings")
		findings = findings[:MaxFindings]
	}

	result := &models.ScanResult{
		ID:              uuid.NewString(),
		ScanID:          uuid.NewString(),
		Timestamp:       s.clock.Now().UTC(),
		Language:        req.Language,
		ProjectContext:  req.ProjectContext,
		ScanProfile:     req.ScanProfile,
		Vulnerabilities: make([]models.Vulnerability, 0, len(findings)),
	}

	for _, f := range findings {
		explained := Explain(f, req.ScanProfile)
		line, snippet := f.LineNumber, f.CodeSnippet
		result.Vulnerabilities = append(result.Vulnerabilities, models.Vulnerability{
			ID:              f.Type + "_" + uuid.NewString()[:8],
			Type:            f.Type,
			Severity:        f.Severity,
			Title:           f.Title,
			Description:     f.OWASP,
			LineNumber:      &line,
			CodeSnippet:     &snippet,
			AIExplanation:   explained.Text,
			ConfidenceScore: explained.Confidence,
			PolicyMappings:  []string{f.OWASP},
			Recommendation:  explained.Recommendation,
		})
		switch f.Severity {
		case models.SeverityCritical:
			result.CriticalCount++
		case models.SeverityHigh:
			result.HighCount++
		case models.SeverityMedium:
			result.MediumCount++
		case models.SeverityLow:
			result.LowCount++
		}
	}
	result.TotalIssues = len(result.Vulnerabilities)
	result.RiskScore = RiskScore(result.CriticalCount, result.HighCount, result.MediumCount, result.LowCount)
	result.Normalize()

	record, err := models.NewScanRecord(result)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode scan result")
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, errors.Wrap(err, "failed to store scan result")
	}

	s.logger.WithFields(logrus.Fields{
		"scan_id":  result.ScanID,
		"language": result.Language,
		"profile":  result.ScanProfile,
		"issues":   result.TotalIssues,
		"critical": result.CriticalCount,
	}).Info("Scan analyzed")

	return result, nil
}

// Scan loads a stored scan result
func (s *Service) Scan(ctx context.Context, scanID string) (*models.ScanResult, error) {
	record, err := s.repo.GetByScanID(ctx, scanID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errors.Wrap(ErrScanNotFound, scanID)
		}
		return nil, errors.Wrap(err, "failed to load scan")
	}
	result, err := record.Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode stored scan")
	}
	return result, nil
}

// Simulation builds the attack simulation of a stored scan
func (s *Service) Simulation(ctx context.Context, scanID string) (*models.AttackSimulation, error) {
	result, err := s.Scan(ctx, scanID)
	if err != nil {
		return nil, err
	}
	return Simulation(result), nil
}

// Compliance builds the compliance report of a stored scan
func (s *Service) Compliance(ctx context.Context, scanID string) (*models.ComplianceReport, error) {
	result, err := s.Scan(ctx, scanID)
	if err != nil {
		return nil, err
	}
	return Compliance(result), nil
}

// Fix returns the secure fix for a vulnerability id. It does not consult storage.
func (s *Service) Fix(vulnID string) *models.SecureFix {
	return FixFor(vulnID)
}

// Samples returns the demo code samples
func (s *Service) Samples() models.SampleCode {
	return Samples()
}

// Lessons returns the education catalog
func (s *Service) Lessons() []models.Lesson {
	return Lessons()
}
