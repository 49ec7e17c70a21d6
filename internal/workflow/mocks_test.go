package workflow

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/threatflux/secureReviewGo/internal/models"
)

// MockService is a mock implementation of Service
type MockService struct {
	mock.Mock
}

func (m *MockService) AnalyzeScan(ctx context.Context, req *models.ScanRequest) (*models.ScanResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScanResult), args.Error(1)
}

func (m *MockService) GetScan(ctx context.Context, scanID string) (*models.ScanResult, error) {
	args := m.Called(ctx, scanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScanResult), args.Error(1)
}

func (m *MockService) GetAttackSimulation(ctx context.Context, scanID string) (*models.AttackSimulation, error) {
	args := m.Called(ctx, scanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AttackSimulation), args.Error(1)
}

func (m *MockService) GetSecureFix(ctx context.Context, vulnID string) (*models.SecureFix, error) {
	args := m.Called(ctx, vulnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SecureFix), args.Error(1)
}

func (m *MockService) GetCompliance(ctx context.Context, scanID string) (*models.ComplianceReport, error) {
	args := m.Called(ctx, scanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ComplianceReport), args.Error(1)
}

func (m *MockService) GetSampleCode(ctx context.Context) (models.SampleCode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.SampleCode), args.Error(1)
}

func (m *MockService) GetLessons(ctx context.Context) ([]models.Lesson, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Lesson), args.Error(1)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func lineNumber(n int) *int { return &n }

func sqlInjection() models.Vulnerability {
	return models.Vulnerability{
		ID:              "SQL_INJECTION_1",
		Type:            "SQL_INJECTION",
		Severity:        models.SeverityCritical,
		Title:           "SQL Injection vulnerability detected",
		LineNumber:      lineNumber(4),
		AIExplanation:   "User input is concatenated into a query.",
		ConfidenceScore: 0.92,
		PolicyMappings:  []string{"A03:2021 - Injection"},
		Recommendation:  "Use parameterized queries",
	}
}

func criticalResult(scanID string) *models.ScanResult {
	return &models.ScanResult{
		ScanID:          scanID,
		TotalIssues:     1,
		CriticalCount:   1,
		RiskScore:       10,
		Vulnerabilities: []models.Vulnerability{sqlInjection()},
	}
}

func fiveStageSimulation(scanID string) *models.AttackSimulation {
	names := []string{"Reconnaissance", "Exploitation", "Privilege Escalation", "Data Exfiltration", "Impact"}
	sim := &models.AttackSimulation{ScanID: scanID, FeasibilityScore: 8.5, EstimatedTimeToExploit: "< 2 hours", SkillLevelRequired: "Intermediate"}
	for i, name := range names {
		sim.Stages = append(sim.Stages, models.Stage{Index: i + 1, Name: name, Status: models.StageDanger})
	}
	return sim
}
