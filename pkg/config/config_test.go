package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Port     int           `env:"CFGTEST_PORT" envDefault:"8080"`
	LogLevel string        `env:"CFGTEST_LOG_LEVEL" envDefault:"info"`
	Lockout  time.Duration `env:"CFGTEST_LOCKOUT" envDefault:"5m"`
	Brokers  []string      `env:"CFGTEST_BROKERS" envSeparator:","`
}

type secretConfig struct {
	Secret string `env:"CFGTEST_SECRET,required"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg sampleConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5*time.Minute, cfg.Lockout)
	assert.Empty(t, cfg.Brokers)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("CFGTEST_PORT", "9090")
	t.Setenv("CFGTEST_LOCKOUT", "30s")
	t.Setenv("CFGTEST_BROKERS", "k1:9092,k2:9092")

	var cfg sampleConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.Lockout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Brokers)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("required missing", func(t *testing.T) {
		var cfg secretConfig
		err := Load(&cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("bad type", func(t *testing.T) {
		t.Setenv("CFGTEST_PORT", "eighty")
		var cfg sampleConfig
		err := Load(&cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CFGTEST_SECRET=from-file\nCFGTEST_PORT=7000\n"), 0o600))

	// Pre-set values win over the file.
	t.Setenv("CFGTEST_PORT", "7100")
	t.Setenv("CFGTEST_SECRET", "")
	require.NoError(t, os.Unsetenv("CFGTEST_SECRET"))

	require.NoError(t, LoadDotEnv(path))
	t.Cleanup(func() { _ = os.Unsetenv("CFGTEST_SECRET") })

	var secret secretConfig
	require.NoError(t, Load(&secret))
	assert.Equal(t, "from-file", secret.Secret)

	var cfg sampleConfig
	require.NoError(t, Load(&cfg))
	assert.Equal(t, 7100, cfg.Port)
}

func TestLoadDotEnv_MissingFileIgnored(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
