package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	val, ok, err := cfg.Properties().Lookup("employees.max_page_size")
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 100, val)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "beanlab.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
env: production
listen_addr: ":9090"
data_dir: /var/lib/beanlab
employees:
  max_page_size: 25
`), 0o600))

	t.Setenv("BEANLAB_LISTEN_ADDR", ":7070")

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.Equal(t, "/var/lib/beanlab", cfg.DataDir)

	val, ok, err := cfg.Properties().Lookup("employees.max_page_size")
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 25, val)

	_, ok, err = cfg.Properties().Lookup("missing.key")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("BEANLAB_SHUTDOWN_TIMEOUT", "0s")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidMaxPageSize(t *testing.T) {
	for _, val := range []string{"0", "-3"} {
		t.Run(val, func(t *testing.T) {
			t.Setenv("BEANLAB_EMPLOYEES_MAX_PAGE_SIZE", val)

			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "MAX_PAGE_SIZE")
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
