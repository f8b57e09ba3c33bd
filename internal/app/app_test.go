package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshiujjwal/lab37hw/internal/apitest"
	"github.com/joshiujjwal/lab37hw/internal/config"
)

func writeConfig(t *testing.T, apiURL string) (string, string, string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvAPIURL, "")

	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "session.toml")
	logFile := filepath.Join(dir, "logs", "recipebox.log")
	path := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("api_url = %q\ntoken_file = %q\nprefs_file = %q\nlog_file = %q\nlog_level = \"debug\"\nrequest_timeout_seconds = 2\n",
		apiURL, tokenFile, filepath.Join(dir, "prefs.toml"), logFile)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path, tokenFile, logFile
}

func TestOpen_WiresConfiguredServices(t *testing.T) {
	server := apitest.New(t)
	path, tokenFile, logFile := writeConfig(t, server.URL)

	deps, err := Open(Options{ConfigPath: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })

	assert.Equal(t, server.URL, deps.Client.BaseURL())
	assert.Equal(t, tokenFile, deps.Tokens.Path())
	assert.Equal(t, 2*time.Second, deps.Config.RequestTimeout)
	assert.False(t, deps.Session.Authenticated())

	_, err = os.Stat(logFile)
	assert.NoError(t, err, "log file is created on open")
}

func TestOpen_SessionSurvivesRestart(t *testing.T) {
	server := apitest.New(t)
	server.AddUser("cook", "secret")
	path, _, _ := writeConfig(t, server.URL)

	deps, err := Open(Options{ConfigPath: path})
	require.NoError(t, err)
	require.NoError(t, deps.Session.Login(context.Background(), "cook", "secret"))
	token := deps.Session.Token()
	require.NoError(t, deps.Close())

	again, err := Open(Options{ConfigPath: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = again.Close() })
	assert.Equal(t, token, again.Session.Token())
}

func TestOpen_InvalidConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("api_url = ["), 0o600))

	_, err := Open(Options{ConfigPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestOpen_InvalidAPIURLFails(t *testing.T) {
	path, _, _ := writeConfig(t, "ftp://example.com")

	_, err := Open(Options{ConfigPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init api client")
}

func TestDeps_RemembersUsername(t *testing.T) {
	server := apitest.New(t)
	path, _, _ := writeConfig(t, server.URL)

	deps, err := Open(Options{ConfigPath: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })

	assert.Empty(t, deps.LastUsername())
	deps.RememberUsername("cook")
	assert.Equal(t, "cook", deps.LastUsername())
}
