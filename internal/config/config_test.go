package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threatflux/secureReviewGo/internal/models"
)

func quietLoader() *Loader {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewLoader(logger)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := quietLoader().Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8001", cfg.Service.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Service.Timeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.Workflow.RevealInterval)
	assert.Equal(t, models.LanguagePython, cfg.Workflow.DefaultLanguage)
	assert.Equal(t, models.ProjectEnterprise, cfg.Workflow.ProjectContext)
	assert.Equal(t, models.ProfileFast, cfg.Workflow.ScanProfile)
	assert.Equal(t, 2, cfg.Learner.LessonsCompleted)
	assert.Equal(t, "Intermediate", cfg.Learner.Rank)
	assert.Len(t, cfg.Learner.Achievements, 5)
	assert.Equal(t, 8001, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.True(t, cfg.Security.RateLimiting.Enabled)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("SRV_SERVICE_BASE_URL", "http://analysis:9000")
	t.Setenv("SRV_WORKFLOW_REVEAL_INTERVAL", "250ms")
	t.Setenv("SRV_WORKFLOW_DEFAULT_LANGUAGE", "go")
	t.Setenv("SRV_SERVER_PORT", "9090")
	t.Setenv("SRV_DATABASE_TYPE", "postgres")
	t.Setenv("SRV_DATABASE_USER", "review")
	t.Setenv("SRV_DATABASE_PASSWORD", "s3cret")
	t.Setenv("SRV_LEARNER_RANK", "Advanced")

	cfg, err := quietLoader().Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://analysis:9000", cfg.Service.BaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Workflow.RevealInterval)
	assert.Equal(t, models.LanguageGo, cfg.Workflow.DefaultLanguage)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "Advanced", cfg.Learner.Rank)
	assert.Contains(t, cfg.DSN(), "user=review")
	assert.Equal(t, "********", cfg.MaskSensitiveFields().Database.Password)
	assert.Equal(t, "s3cret", cfg.Database.Password)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.yaml")
	content := `
service:
  base_url: http://review.internal:8001
workflow:
  scan_profile: demo
learner:
  lessons_completed: 4
  total_lessons: 8
logging:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := quietLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://review.internal:8001", cfg.Service.BaseURL)
	assert.Equal(t, models.ProfileDemo, cfg.Workflow.ScanProfile)
	assert.Equal(t, 50, cfg.Learner.CompletionPercent())

	logger := cfg.NewLogger(io.Discard)
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func TestLoadConfigFileFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 7000\n"), 0o600))
	t.Setenv("SRV_CONFIG", path)

	cfg, err := quietLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := quietLoader().Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func validConfig() *Config {
	cfg, err := quietLoader().Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{
			name:   "relative service url",
			mutate: func(c *Config) { c.Service.BaseURL = "localhost:8001" },
			errMsg: "invalid analysis service URL",
		},
		{
			name:   "zero reveal interval",
			mutate: func(c *Config) { c.Workflow.RevealInterval = 0 },
			errMsg: "reveal interval must be positive",
		},
		{
			name:   "unsupported language",
			mutate: func(c *Config) { c.Workflow.DefaultLanguage = "cobol" },
			errMsg: "unsupported language",
		},
		{
			name:   "unknown scan profile",
			mutate: func(c *Config) { c.Workflow.ScanProfile = "Thorough" },
			errMsg: "invalid project context or scan profile",
		},
		{
			name:   "learner ahead of catalog",
			mutate: func(c *Config) { c.Learner.LessonsCompleted = 9 },
			errMsg: "completed lessons must be between 0 and total",
		},
		{
			name:   "invalid server port",
			mutate: func(c *Config) { c.Server.Port = 0 },
			errMsg: "invalid server port",
		},
		{
			name:   "unsupported database type",
			mutate: func(c *Config) { c.Database.Type = "mysql" },
			errMsg: "unsupported database type",
		},
		{
			name: "missing postgres host",
			mutate: func(c *Config) {
				c.Database.Type = "postgres"
				c.Database.Host = ""
				c.Database.User = "review"
			},
			errMsg: "postgres host is empty",
		},
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.Logging.Level = "loud" },
			errMsg: "invalid log level",
		},
		{
			name:   "rate limit without burst",
			mutate: func(c *Config) { c.Security.RateLimiting.Burst = 0 },
			errMsg: "must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateConfigCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = -1
	cfg.Logging.Format = "xml"

	err := validateConfig(cfg)
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 2)
}

func TestWorkflowConfig(t *testing.T) {
	cfg := validConfig()
	wc := cfg.WorkflowConfig()
	assert.Equal(t, cfg.Workflow.RevealInterval, wc.RevealInterval)
	assert.Equal(t, cfg.Learner.Rank, wc.Learner.Rank)
	assert.Len(t, cfg.ClientOptions(), 3)
}
