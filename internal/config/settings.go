package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/mitchellh/go-homedir"

	"github.com/ytget/yt-clipper/internal/platform"
)

// EnvConfigPath names the environment variable holding an optional config file
const EnvConfigPath = "CLIPPER_CONFIG"

// Default values
const (
	DefaultFfprobeCommand      = "ffprobe"
	DefaultUserAgent           = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultMinFileSize         = 1000
	DefaultCookieFile          = "cookie.txt"
	DefaultConnectivityHost    = "youtube.com"
	DefaultConnectivityURL     = "https://www.google.com"
	DefaultConnectivityTimeout = 10 * time.Second
	DefaultFallbackEnabled     = true
	DefaultFallbackTimeout     = 30 * time.Second
	DefaultLogLevel            = "info"
	DefaultFontsDir            = "fonts"
	DefaultFontTimeout         = 60 * time.Second
)

// Settings is the full configuration of both commands. Values come from
// Defaults, then the optional config file, then the environment.
type Settings struct {
	Download     DownloadSettings     `yaml:"download"`
	Connectivity ConnectivitySettings `yaml:"connectivity"`
	Fallback     FallbackSettings     `yaml:"fallback"`
	Fonts        FontSettings         `yaml:"fonts"`
	LogLevel     string               `yaml:"log_level" env:"LOG_LEVEL" validate:"oneof=verbose debug info warn warning error"`
}

// DownloadSettings configures the yt-dlp strategies and the result checks
type DownloadSettings struct {
	YtDlpPath   string `yaml:"ytdlp_path" env:"YTDLP_PATH"`
	FfprobePath string `yaml:"ffprobe_path" env:"FFPROBE_PATH" validate:"required"`
	UserAgent   string `yaml:"user_agent" env:"DOWNLOAD_USER_AGENT" validate:"required"`
	MinFileSize int64  `yaml:"min_file_size" env:"MIN_FILE_SIZE" validate:"gt=0"`
	CookieFile  string `yaml:"cookie_file" env:"COOKIE_FILE"`
}

// ConnectivitySettings configures the pre-flight network probe
type ConnectivitySettings struct {
	DNSHost string        `yaml:"dns_host" env:"CONNECTIVITY_DNS_HOST" validate:"required,hostname"`
	HTTPURL string        `yaml:"http_url" env:"CONNECTIVITY_HTTP_URL" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" env:"CONNECTIVITY_TIMEOUT" validate:"gt=0"`
}

// FallbackSettings configures the library-based fallback provider
type FallbackSettings struct {
	Enabled bool          `yaml:"enabled" env:"FALLBACK_ENABLED"`
	Timeout time.Duration `yaml:"http_timeout" env:"FALLBACK_HTTP_TIMEOUT" validate:"gt=0"`
}

// FontSettings configures the font provisioning command
type FontSettings struct {
	Dir     string        `yaml:"dir" env:"FONTS_DIR" validate:"required"`
	Timeout time.Duration `yaml:"http_timeout" env:"FONTS_HTTP_TIMEOUT" validate:"gt=0"`
}

// Load reads the settings from the file named by CLIPPER_CONFIG, if any,
// and the environment, fills platform defaults and validates the result.
func Load() (*Settings, error) {
	settings := Defaults()

	var err error
	if path := os.Getenv(EnvConfigPath); path != "" {
		err = cleanenv.ReadConfig(path, settings)
	} else {
		err = cleanenv.ReadEnv(settings)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration - %v", err)
	}

	if err := settings.resolve(); err != nil {
		return nil, err
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Defaults returns the settings used when neither a config file nor the
// environment sets a value. YtDlpPath is left empty and filled per platform.
func Defaults() *Settings {
	return &Settings{
		Download: DownloadSettings{
			FfprobePath: DefaultFfprobeCommand,
			UserAgent:   DefaultUserAgent,
			MinFileSize: DefaultMinFileSize,
			CookieFile:  DefaultCookieFile,
		},
		Connectivity: ConnectivitySettings{
			DNSHost: DefaultConnectivityHost,
			HTTPURL: DefaultConnectivityURL,
			Timeout: DefaultConnectivityTimeout,
		},
		Fallback: FallbackSettings{
			Enabled: DefaultFallbackEnabled,
			Timeout: DefaultFallbackTimeout,
		},
		Fonts: FontSettings{
			Dir:     DefaultFontsDir,
			Timeout: DefaultFontTimeout,
		},
		LogLevel: DefaultLogLevel,
	}
}

// Validate checks every settings field against its constraints
func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// resolve fills values that depend on the platform and expands ~ in paths
func (s *Settings) resolve() error {
	if s.Download.YtDlpPath == "" {
		s.Download.YtDlpPath = platform.DefaultYtDlpPath()
	}

	paths := []*string{
		&s.Download.YtDlpPath,
		&s.Download.FfprobePath,
		&s.Download.CookieFile,
		&s.Fonts.Dir,
	}
	for _, p := range paths {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("failed to expand path %q: %w", *p, err)
		}
		*p = expanded
	}

	return nil
}
