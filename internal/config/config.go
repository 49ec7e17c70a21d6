// Package config loads the settings shared by the review CLI and the demo
// analysis service.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/threatflux/secureReviewGo/internal/models"
)

// EnvPrefix prefixes every environment override, e.g. SRV_SERVICE_BASE_URL
const EnvPrefix = "SRV"

// Config is the complete configuration
type Config struct {
	// Analysis service consumed by the workflow
	Service struct {
		BaseURL   string        `mapstructure:"base_url"`
		Timeout   time.Duration `mapstructure:"timeout"`
		UserAgent string        `mapstructure:"user_agent"`
	} `mapstructure:"service"`

	// Review session defaults
	Workflow struct {
		RevealInterval  time.Duration         `mapstructure:"reveal_interval"`
		DefaultLanguage models.Language       `mapstructure:"default_language"`
		ProjectContext  models.ProjectContext `mapstructure:"project_context"`
		ScanProfile     models.ScanProfile    `mapstructure:"scan_profile"`
	} `mapstructure:"workflow"`

	// Learner progress shown on the education view
	Learner models.LearnerProgress `mapstructure:"learner"`

	Server struct {
		Host            string        `mapstructure:"host"`
		Port            int           `mapstructure:"port"`
		Mode            string        `mapstructure:"mode"`
		ReadTimeout     time.Duration `mapstructure:"read_timeout"`
		WriteTimeout    time.Duration `mapstructure:"write_timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
		TrustedProxies  []string      `mapstructure:"trusted_proxies"`
	} `mapstructure:"server"`

	Database struct {
		Type     string `mapstructure:"type"`
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"` // Sensitive
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"ssl_mode"`
		SQLite   struct {
			Path string `mapstructure:"path"`
		} `mapstructure:"sqlite"`
		MaxOpenConns    int           `mapstructure:"max_open_conns"`
		MaxIdleConns    int           `mapstructure:"max_idle_conns"`
		ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	} `mapstructure:"database"`

	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"logging"`

	Security struct {
		RateLimiting struct {
			Enabled           bool    `mapstructure:"enabled"`
			RequestsPerSecond float64 `mapstructure:"requests_per_second"`
			Burst             int     `mapstructure:"burst"`
		} `mapstructure:"rate_limiting"`
		CORS struct {
			AllowedOrigins []string `mapstructure:"allowed_origins"`
		} `mapstructure:"cors"`
	} `mapstructure:"security"`
}

// Loader reads configuration from defaults, an optional file and the
// environment, in increasing order of precedence
type Loader struct {
	v   *viper.Viper
	env *EnvProvider
	log *logrus.Logger
}

// NewLoader creates a loader with defaults and environment binding in place
func NewLoader(logger *logrus.Logger) *Loader {
	if logger == nil {
		logger = logrus.New()
	}
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v, env: NewEnvProvider(EnvPrefix, logger), log: logger}
}

// Viper exposes the underlying instance so callers can bind flags
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load reads configFile, or SRV_CONFIG, or searches the default locations
// when both are empty, and returns the validated configuration
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		configFile = l.env.Get("CONFIG", "")
	}
	if err := l.readConfigFile(configFile); err != nil {
		return nil, err
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// LoadConfig loads the configuration with a default loader
func LoadConfig(configFile string) (*Config, error) {
	return NewLoader(nil).Load(configFile)
}

func (l *Loader) readConfigFile(configFile string) error {
	if configFile != "" {
		l.v.SetConfigFile(configFile)
		if err := l.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		return nil
	}

	l.v.SetConfigName("securereview")
	l.v.SetConfigType("yaml")
	l.v.AddConfigPath(".")
	l.v.AddConfigPath("./config")
	l.v.AddConfigPath("$HOME/.securereview")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			l.log.Debug("No config file found, using defaults and environment")
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	l.log.WithField("file", l.v.ConfigFileUsed()).Debug("Loaded config file")
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.base_url", "http://localhost:8001")
	v.SetDefault("service.timeout", "60s")
	v.SetDefault("service.user_agent", "SecureReviewClient/1.0")

	v.SetDefault("workflow.reveal_interval", "1500ms")
	v.SetDefault("workflow.default_language", string(models.LanguagePython))
	v.SetDefault("workflow.project_context", string(models.ProjectEnterprise))
	v.SetDefault("workflow.scan_profile", string(models.ProfileFast))

	v.SetDefault("learner.lessons_completed", 2)
	v.SetDefault("learner.total_lessons", 5)
	v.SetDefault("learner.security_score", 78)
	v.SetDefault("learner.rank", "Intermediate")
	v.SetDefault("learner.achievements", []string{"First Scan", "SQL Slayer", "XSS Hunter", "Secret Keeper", "Compliance Rookie"})

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8001)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.trusted_proxies", []string{})

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "securereview")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.sqlite.path", "securereview.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("security.rate_limiting.enabled", true)
	v.SetDefault("security.rate_limiting.requests_per_second", 10)
	v.SetDefault("security.rate_limiting.burst", 20)
	v.SetDefault("security.cors.allowed_origins", []string{"*"})
}

// ValidationError is one invalid setting
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors collects every invalid setting found in one pass
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, fmt.Sprintf("%s: %s", ve.Field, ve.Message))
	}
	return "configuration validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationErrors) add(field, format string, args ...interface{}) {
	*e = append(*e, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// validateConfig checks every setting and reports all problems together
func validateConfig(c *Config) error {
	var errs ValidationErrors

	if u, err := url.Parse(c.Service.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs.add("service.base_url", "invalid analysis service URL: %q", c.Service.BaseURL)
	}
	if c.Service.Timeout <= 0 {
		errs.add("service.timeout", "timeout must be positive")
	}

	if c.Workflow.RevealInterval <= 0 {
		errs.add("workflow.reveal_interval", "reveal interval must be positive")
	}
	if !models.IsValidLanguage(c.Workflow.DefaultLanguage) {
		errs.add("workflow.default_language", "unsupported language: %s", c.Workflow.DefaultLanguage)
	}
	probe := models.ScanRequest{
		Code:           "-",
		Language:       models.LanguagePython,
		ProjectContext: c.Workflow.ProjectContext,
		ScanProfile:    c.Workflow.ScanProfile,
	}
	if err := probe.Validate(); err != nil {
		errs.add("workflow", "invalid project context or scan profile: %s/%s", c.Workflow.ProjectContext, c.Workflow.ScanProfile)
	}

	if c.Learner.TotalLessons < 0 || c.Learner.LessonsCompleted < 0 || c.Learner.LessonsCompleted > c.Learner.TotalLessons {
		errs.add("learner", "completed lessons must be between 0 and total (%d/%d)", c.Learner.LessonsCompleted, c.Learner.TotalLessons)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs.add("server.port", "invalid server port: %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs.add("server.mode", "unsupported server mode: %s", c.Server.Mode)
	}

	switch c.Database.Type {
	case "sqlite":
		if c.Database.SQLite.Path == "" {
			errs.add("database.sqlite.path", "sqlite database path is empty")
		}
	case "postgres":
		if c.Database.Host == "" {
			errs.add("database.host", "postgres host is empty")
		}
		if c.Database.User == "" {
			errs.add("database.user", "postgres user is empty")
		}
		if c.Database.Name == "" {
			errs.add("database.name", "postgres database name is empty")
		}
	default:
		errs.add("database.type", "unsupported database type: %s", c.Database.Type)
	}

	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		errs.add("logging.level", "invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		errs.add("logging.format", "unsupported log format: %s", c.Logging.Format)
	}

	if c.Security.RateLimiting.Enabled {
		if c.Security.RateLimiting.RequestsPerSecond <= 0 {
			errs.add("security.rate_limiting.requests_per_second", "must be positive")
		}
		if c.Security.RateLimiting.Burst < 1 {
			errs.add("security.rate_limiting.burst", "must be at least 1")
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SafeString masks a sensitive value
func SafeString(val string) string {
	if val == "" {
		return ""
	}
	return "********"
}

// MaskSensitiveFields returns a copy with secrets masked
func (c *Config) MaskSensitiveFields() Config {
	masked := *c
	masked.Database.Password = SafeString(masked.Database.Password)
	return masked
}

// DSN returns the connection string of the configured postgres database
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Name, c.Database.SSLMode)
}

// Addr returns the listen address of the demo service
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
