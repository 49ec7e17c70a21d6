package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvProviderGet(t *testing.T) {
	p := DefaultEnvProvider()
	assert.Equal(t, "default", p.Get("TEST_VAR", "default"))
	assert.False(t, p.IsSet("TEST_VAR"))

	t.Setenv("SRV_TEST_VAR", "value")
	assert.Equal(t, "value", p.Get("TEST_VAR", "default"))
	assert.True(t, p.IsSet("TEST_VAR"))

	v, err := p.Require("TEST_VAR")
	assert.NoError(t, err)
	assert.Equal(t, "value", v)

	_, err = p.Require("OTHER_VAR")
	assert.ErrorIs(t, err, ErrEnvVarEmpty)
}

func TestEnvProviderGetBool(t *testing.T) {
	tests := []struct {
		value    string
		defValue bool
		expected bool
	}{
		{"true", false, true},
		{"yes", false, true},
		{"1", false, true},
		{"off", true, false},
		{"no", true, false},
		{"invalid", true, true},
		{"invalid", false, false},
	}

	p := NewEnvProvider("SRV", nil)
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("SRV_FLAG", tt.value)
			assert.Equal(t, tt.expected, p.GetBool("FLAG", tt.defValue))
		})
	}
}

func TestEnvProviderGetIntAndDuration(t *testing.T) {
	p := DefaultEnvProvider()
	assert.Equal(t, 5, p.GetInt("COUNT", 5))

	t.Setenv("SRV_COUNT", "12")
	assert.Equal(t, 12, p.GetInt("COUNT", 5))
	t.Setenv("SRV_COUNT", "twelve")
	assert.Equal(t, 5, p.GetInt("COUNT", 5))

	t.Setenv("SRV_WAIT", "2s")
	assert.Equal(t, 2*time.Second, p.GetDuration("WAIT", time.Second))
	t.Setenv("SRV_WAIT", "soon")
	assert.Equal(t, time.Second, p.GetDuration("WAIT", time.Second))
}

func TestEnvProviderEnvironment(t *testing.T) {
	p := DefaultEnvProvider()
	t.Setenv("SRV_ENV", "PRODUCTION")
	assert.True(t, p.IsProduction())

	t.Setenv("SRV_ENV", "qa")
	assert.Equal(t, EnvDevelopment, p.GetEnvironment())

	assert.Equal(t, "UNPREFIXED", NewEnvProvider("", nil).key("UNPREFIXED"))
}
