package api

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/threatflux/secureReviewGo/internal/config"
	"github.com/threatflux/secureReviewGo/internal/database"
	"github.com/threatflux/secureReviewGo/internal/models"
)

// MockAnalysisService is a mock implementation of AnalysisService
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, req *models.ScanRequest) (*models.ScanResult, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*models.ScanResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAnalysisService) Scan(ctx context.Context, scanID string) (*models.ScanResult, error) {
	args := m.Called(ctx, scanID)
	if r := args.Get(0); r != nil {
		return r.(*models.ScanResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAnalysisService) Simulation(ctx context.Context, scanID string) (*models.AttackSimulation, error) {
	args := m.Called(ctx, scanID)
	if r := args.Get(0); r != nil {
		return r.(*models.AttackSimulation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAnalysisService) Compliance(ctx context.Context, scanID string) (*models.ComplianceReport, error) {
	args := m.Called(ctx, scanID)
	if r := args.Get(0); r != nil {
		return r.(*models.ComplianceReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAnalysisService) Fix(vulnID string) *models.SecureFix {
	return m.Called(vulnID).Get(0).(*models.SecureFix)
}

func (m *MockAnalysisService) Samples() models.SampleCode {
	return m.Called().Get(0).(models.SampleCode)
}

func (m *MockAnalysisService) Lessons() []models.Lesson {
	return m.Called().Get(0).([]models.Lesson)
}

// MockDatabase is a mock implementation of database.Database covering Ping and Close
type MockDatabase struct {
	mock.Mock
	database.Database
}

func (m *MockDatabase) Ping() error  { return m.Called().Error(0) }
func (m *MockDatabase) Close() error { return m.Called().Error(0) }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 8001
	cfg.Server.Mode = "test"
	cfg.Security.CORS.AllowedOrigins = []string{"*"}
	return cfg
}
