package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOGSEQ_API_URL",
		"LOGSEQ_API_TOKEN",
		"LOGSEQ_CONNECT_TIMEOUT_SECONDS",
		"LOGSEQ_READ_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOGSEQ_API_TOKEN", "tok")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:12315", cfg.APIURL)
	assert.Equal(t, "tok", cfg.APIToken)
	assert.Equal(t, 3*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 6*time.Second, cfg.ReadTimeout)
}

func TestLoad_TokenRequired(t *testing.T) {
	clearEnv(t)

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOGSEQ_API_TOKEN")
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOGSEQ_API_TOKEN", "tok")
	t.Setenv("LOGSEQ_API_URL", "http://10.0.0.5:9999/")
	t.Setenv("LOGSEQ_CONNECT_TIMEOUT_SECONDS", "1")
	t.Setenv("LOGSEQ_READ_TIMEOUT_SECONDS", "30")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:9999", cfg.APIURL, "trailing slash is trimmed")
	assert.Equal(t, time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"api_url: http://192.168.1.2:12315\napi_token: file-token\nread_timeout_seconds: 12\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://192.168.1.2:12315", cfg.APIURL)
	assert.Equal(t, "file-token", cfg.APIToken)
	assert.Equal(t, 3*time.Second, cfg.ConnectTimeout, "file omits it, default applies")
	assert.Equal(t, 12*time.Second, cfg.ReadTimeout)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOGSEQ_API_TOKEN", "env-token")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_token: file-token\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.APIToken)
}

func TestLoad_RejectsBadURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOGSEQ_API_TOKEN", "tok")
	t.Setenv("LOGSEQ_API_URL", "ftp://example.com")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http or https")
}

func TestLoad_RejectsBadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOGSEQ_API_TOKEN", "tok")
	t.Setenv("LOGSEQ_READ_TIMEOUT_SECONDS", "soon")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOGSEQ_API_TOKEN", "tok")

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
