package download

import (
	"context"
	"errors"
	"fmt"

	"github.com/alessio/shellescape"
	"github.com/dustin/go-humanize"

	"github.com/ytget/yt-clipper/internal/logger"
	"github.com/ytget/yt-clipper/internal/model"
	"github.com/ytget/yt-clipper/internal/platform"
)

// CLIProviderName identifies the yt-dlp executable provider in attempts and logs
const CLIProviderName = "yt-dlp"

var (
	// ErrStrategiesExhausted indicates every yt-dlp strategy failed.
	ErrStrategiesExhausted = errors.New("all download strategies failed")
	// ErrUndersized indicates the output file is missing or not above the minimum size.
	ErrUndersized = errors.New("output file missing or below minimum size")
)

var cliLog = logger.Get("yt-dlp")

// CLIConfig configures the yt-dlp provider
type CLIConfig struct {
	Binary      string
	UserAgent   string
	CookieFile  string // optional; honored only when it passes platform.ValidateCookieFile
	MinFileSize int64
	Strategies  []Strategy // defaults to DefaultStrategies when empty
}

// CLIProvider runs the yt-dlp executable once per strategy until one
// produces a valid file
type CLIProvider struct {
	cfg    CLIConfig
	runner platform.CommandRunner
}

// NewCLIProvider creates a yt-dlp provider using runner to start processes
func NewCLIProvider(cfg CLIConfig, runner platform.CommandRunner) *CLIProvider {
	if len(cfg.Strategies) == 0 {
		cfg.Strategies = DefaultStrategies()
	}
	return &CLIProvider{cfg: cfg, runner: runner}
}

// Name returns the provider name
func (p *CLIProvider) Name() string {
	return CLIProviderName
}

// Attempt tries each strategy in order. The first strategy whose process
// exits 0 and leaves a file larger than the minimum wins; later strategies
// are not run. Failed strategies have their partial output removed.
func (p *CLIProvider) Attempt(ctx context.Context, req model.DownloadRequest) model.Attempt {
	cookies := p.usableCookieFile()

	var lastErr error
	for i, strategy := range p.cfg.Strategies {
		n := i + 1
		cliLog.Emit(logger.INFO, "Trying download strategy %d (%s)...", n, strategy.Name)

		args := p.BuildArgs(strategy, req, cookies)
		lastErr = p.runStrategy(ctx, args, req.OutputPath)
		if lastErr == nil {
			size, _ := platform.FileSize(req.OutputPath)
			cliLog.Emit(logger.SUCCESS, "Strategy %d succeeded! (%s)", n, humanize.Bytes(uint64(size)))
			return model.Attempt{
				Provider: p.Name(),
				Strategy: strategy.Name,
				Outcome:  model.AttemptSucceeded,
			}
		}

		cliLog.Emit(logger.WARNING, "Strategy %d failed: %v, trying next...", n, lastErr)
		if err := platform.RemoveIfExists(req.OutputPath); err != nil {
			cliLog.Emit(logger.ERROR, "Failed to clean up after strategy %d: %v", n, err)
		}
	}

	cliLog.Emit(logger.ERROR, "All download strategies failed")
	return model.Attempt{
		Provider: p.Name(),
		Outcome:  model.AttemptFailed,
		Err:      fmt.Errorf("%w: last error: %v", ErrStrategiesExhausted, lastErr),
	}
}

// BuildArgs returns the full yt-dlp argument list for strategy. When
// cookieFile is set the cookie flag is inserted right before the URL.
func (p *CLIProvider) BuildArgs(strategy Strategy, req model.DownloadRequest, cookieFile string) []string {
	args := strategy.Args(p.cfg.UserAgent, req.OutputPath, req.URL)
	if cookieFile != "" {
		args = insertBeforeLast(args, CookiesFlag, cookieFile)
	}
	return args
}

func (p *CLIProvider) runStrategy(ctx context.Context, args []string, outputPath string) error {
	cliLog.Emit(logger.INFO, "Running command: %s", shellescape.QuoteCommand(append([]string{p.cfg.Binary}, args...)))

	result, err := p.runner.Run(ctx, p.cfg.Binary, args...)
	cliLog.Emit(logger.INFO, "yt-dlp stdout: %s", result.Stdout)
	cliLog.Emit(logger.INFO, "yt-dlp stderr: %s", result.Stderr)
	if err != nil {
		return err
	}

	if result.ExitCode != 0 {
		return fmt.Errorf("yt-dlp exited with status %d", result.ExitCode)
	}

	if !platform.ExceedsMinimumSize(outputPath, p.cfg.MinFileSize) {
		return ErrUndersized
	}

	return nil
}

// usableCookieFile returns the configured cookie file if it is a Netscape
// cookie file, or "" otherwise. An unusable file is ignored, never fatal.
func (p *CLIProvider) usableCookieFile() string {
	if p.cfg.CookieFile == "" {
		return ""
	}

	err := platform.ValidateCookieFile(p.cfg.CookieFile)
	switch {
	case err == nil:
		cliLog.Emit(logger.INFO, "Using cookies from %s", p.cfg.CookieFile)
		return p.cfg.CookieFile
	case errors.Is(err, platform.ErrCookieFileMissing):
		return ""
	case errors.Is(err, platform.ErrInvalidCookieFile):
		cliLog.Emit(logger.WARNING, "%s exists but is not a valid Netscape format file, ignoring.", p.cfg.CookieFile)
		return ""
	default:
		cliLog.Emit(logger.WARNING, "Ignoring cookie file: %v", err)
		return ""
	}
}
