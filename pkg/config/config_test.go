package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port    int           `env:"TEST_CFG_PORT" envDefault:"8080"`
	Brokers []string      `env:"TEST_CFG_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	TTL     time.Duration `env:"TEST_CFG_TTL" envDefault:"5m"`
	Secret  string        `env:"TEST_CFG_SECRET,required"`
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_SECRET", "s3cret")

	var cfg testConfig
	require.NoError(t, Load(&cfg))
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "s3cret", cfg.Secret)
}

func TestLoadFrom_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, LoadFrom(&cfg, map[string]string{"TEST_CFG_SECRET": "x"}))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, 5*time.Minute, cfg.TTL)
}

func TestLoadFrom_ParsesSlicesAndDurations(t *testing.T) {
	var cfg testConfig
	err := LoadFrom(&cfg, map[string]string{
		"TEST_CFG_SECRET":  "x",
		"TEST_CFG_BROKERS": "k1:9092,k2:9092",
		"TEST_CFG_TTL":     "90s",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Brokers)
	assert.Equal(t, 90*time.Second, cfg.TTL)
}

func TestLoadFrom_MissingRequired(t *testing.T) {
	var cfg testConfig
	err := LoadFrom(&cfg, map[string]string{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEST_CFG_SECRET")
}

func TestLoadFrom_InvalidValue(t *testing.T) {
	var cfg testConfig
	err := LoadFrom(&cfg, map[string]string{"TEST_CFG_SECRET": "x", "TEST_CFG_PORT": "eighty"})

	require.Error(t, err)
}
