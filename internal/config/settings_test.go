package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-clipper/internal/platform"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, platform.DefaultYtDlpPath(), settings.Download.YtDlpPath)
	assert.Equal(t, DefaultFfprobeCommand, settings.Download.FfprobePath)
	assert.Equal(t, DefaultUserAgent, settings.Download.UserAgent)
	assert.EqualValues(t, DefaultMinFileSize, settings.Download.MinFileSize)
	assert.Equal(t, DefaultCookieFile, settings.Download.CookieFile)
	assert.Equal(t, DefaultConnectivityHost, settings.Connectivity.DNSHost)
	assert.Equal(t, DefaultConnectivityURL, settings.Connectivity.HTTPURL)
	assert.Equal(t, DefaultConnectivityTimeout, settings.Connectivity.Timeout)
	assert.True(t, settings.Fallback.Enabled)
	assert.Equal(t, DefaultFallbackTimeout, settings.Fallback.Timeout)
	assert.Equal(t, DefaultLogLevel, settings.LogLevel)
	assert.Equal(t, DefaultFontsDir, settings.Fonts.Dir)
	assert.Equal(t, DefaultFontTimeout, settings.Fonts.Timeout)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("YTDLP_PATH", "/opt/bin/yt-dlp")
	t.Setenv("MIN_FILE_SIZE", "4096")
	t.Setenv("CONNECTIVITY_TIMEOUT", "3s")
	t.Setenv("FALLBACK_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "debug")

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/opt/bin/yt-dlp", settings.Download.YtDlpPath)
	assert.EqualValues(t, 4096, settings.Download.MinFileSize)
	assert.Equal(t, 3*time.Second, settings.Connectivity.Timeout)
	assert.False(t, settings.Fallback.Enabled)
	assert.Equal(t, "debug", settings.LogLevel)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clipper.yaml")
	content := []byte("download:\n  min_file_size: 2048\n  cookie_file: /etc/clipper/cookies.txt\nfonts:\n  dir: /srv/fonts\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	t.Setenv(EnvConfigPath, path)

	settings, err := Load()
	require.NoError(t, err)

	assert.EqualValues(t, 2048, settings.Download.MinFileSize)
	assert.Equal(t, "/etc/clipper/cookies.txt", settings.Download.CookieFile)
	assert.Equal(t, "/srv/fonts", settings.Fonts.Dir)
	assert.Equal(t, DefaultUserAgent, settings.Download.UserAgent)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		env   string
		value string
	}{
		{"MIN_FILE_SIZE", "0"},
		{"CONNECTIVITY_HTTP_URL", "not a url"},
		{"LOG_LEVEL", "chatty"},
	}

	for _, test := range tests {
		t.Run(test.env, func(t *testing.T) {
			t.Setenv(EnvConfigPath, "")
			t.Setenv(test.env, test.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadExpandsHomeDirectory(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("COOKIE_FILE", "~/cookies.txt")

	home, err := homedir.Dir()
	require.NoError(t, err)

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "cookies.txt"), settings.Download.CookieFile)
}

func TestLoadMatchesDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	settings, err := Load()
	require.NoError(t, err)

	expected := Defaults()
	expected.Download.YtDlpPath = platform.DefaultYtDlpPath()
	assert.Equal(t, expected, settings)
}

func TestLoadFromFileOverridesDefaultFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clipper.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fallback:\n  enabled: false\n"), 0o644))
	t.Setenv(EnvConfigPath, path)

	settings, err := Load()
	require.NoError(t, err)

	assert.False(t, settings.Fallback.Enabled)
	assert.Equal(t, DefaultFallbackTimeout, settings.Fallback.Timeout)
	assert.Equal(t, DefaultConnectivityHost, settings.Connectivity.DNSHost)
}
