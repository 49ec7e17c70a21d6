package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrEnvVarEmpty is returned when a required environment variable is not set
var ErrEnvVarEmpty = errors.New("required environment variable is not set")

// Deployment environments
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
	EnvTest        = "test"
)

// EnvProvider reads prefixed environment variables with typed defaults
type EnvProvider struct {
	log    *logrus.Logger
	Prefix string
}

// NewEnvProvider creates a provider for variables named PREFIX_KEY
func NewEnvProvider(prefix string, logger *logrus.Logger) *EnvProvider {
	if logger == nil {
		logger = logrus.New()
	}
	return &EnvProvider{log: logger, Prefix: prefix}
}

// DefaultEnvProvider returns a provider with the SRV prefix
func DefaultEnvProvider() *EnvProvider {
	return NewEnvProvider(EnvPrefix, nil)
}

func (p *EnvProvider) key(key string) string {
	if p.Prefix == "" {
		return key
	}
	return p.Prefix + "_" + key
}

func (p *EnvProvider) lookup(key string) (string, string, bool) {
	full := p.key(key)
	value, ok := os.LookupEnv(full)
	return full, value, ok
}

// Get returns the variable or defaultValue when it is not set
func (p *EnvProvider) Get(key, defaultValue string) string {
	if _, value, ok := p.lookup(key); ok {
		return value
	}
	return defaultValue
}

// Require returns the variable or ErrEnvVarEmpty
func (p *EnvProvider) Require(key string) (string, error) {
	full, value, ok := p.lookup(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrEnvVarEmpty, full)
	}
	return value, nil
}

// GetBool parses a boolean; unparseable values fall back to defaultValue
func (p *EnvProvider) GetBool(key string, defaultValue bool) bool {
	full, value, ok := p.lookup(key)
	if !ok {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "true", "yes", "y", "1", "on":
		return true
	case "false", "no", "n", "0", "off":
		return false
	}
	p.log.Warnf("Invalid boolean value for %s: %s, using default: %v", full, value, defaultValue)
	return defaultValue
}

// GetInt parses an integer; unparseable values fall back to defaultValue
func (p *EnvProvider) GetInt(key string, defaultValue int) int {
	full, value, ok := p.lookup(key)
	if !ok {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.log.Warnf("Invalid integer value for %s: %s, using default: %d", full, value, defaultValue)
		return defaultValue
	}
	return n
}

// GetDuration parses a duration; unparseable values fall back to defaultValue
func (p *EnvProvider) GetDuration(key string, defaultValue time.Duration) time.Duration {
	full, value, ok := p.lookup(key)
	if !ok {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.log.Warnf("Invalid duration value for %s: %s, using default: %s", full, value, defaultValue)
		return defaultValue
	}
	return d
}

// IsSet reports whether the variable is present
func (p *EnvProvider) IsSet(key string) bool {
	_, _, ok := p.lookup(key)
	return ok
}

// GetEnvironment returns the deployment environment, development when unset
// or unknown
func (p *EnvProvider) GetEnvironment() string {
	env := strings.ToLower(p.Get("ENV", EnvDevelopment))
	switch env {
	case EnvProduction, EnvDevelopment, EnvTest:
		return env
	}
	p.log.Warnf("Invalid environment value: %s, defaulting to development", env)
	return EnvDevelopment
}

// IsProduction reports whether the environment is production
func (p *EnvProvider) IsProduction() bool {
	return p.GetEnvironment() == EnvProduction
}
