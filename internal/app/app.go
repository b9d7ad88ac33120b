package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ytget/yt-clipper/internal/download"
	"github.com/ytget/yt-clipper/internal/logger"
	"github.com/ytget/yt-clipper/internal/model"
	"github.com/ytget/yt-clipper/internal/platform"
	"github.com/ytget/yt-clipper/internal/report"
)

// Messages returned in the error field of a failed result
const (
	UsageMessage        = "Usage: download-video <url> <start_time> <end_time> <output_path>"
	ConnectivityMessage = "Network connectivity issues detected. Please check your internet connection."
	DownloadMessage     = "All download methods failed. See logs above for details."
)

// Process exit codes
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// ExpectedArgs is the number of positional arguments of the download command
const ExpectedArgs = 4

var log = logger.Get("App")

// ConnectivityChecker reports whether the network looks usable
type ConnectivityChecker interface {
	Check(ctx context.Context) bool
}

// ResolutionReporter labels the resolution of a finished download
type ResolutionReporter interface {
	Report(path string) model.Resolution
}

// App runs one download request end to end
type App struct {
	checker     ConnectivityChecker
	downloader  download.Downloader
	resolution  ResolutionReporter
	minFileSize int64
}

// New creates the application from its collaborators
func New(checker ConnectivityChecker, downloader download.Downloader, resolution ResolutionReporter, minFileSize int64) *App {
	return &App{
		checker:     checker,
		downloader:  downloader,
		resolution:  resolution,
		minFileSize: minFileSize,
	}
}

// Run executes the command for args (without the program name), writes
// exactly one JSON result to stdout and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string, stdout io.Writer) int {
	emitter := report.NewEmitter(stdout)
	runID := model.NewRunID()

	result := a.run(ctx, runID, args)
	if err := emitter.Emit(result); err != nil {
		log.Emit(logger.ERROR, "[%s] %v", runID, err)
		return ExitFailure
	}

	if !result.Success {
		return ExitFailure
	}
	return ExitSuccess
}

func (a *App) run(ctx context.Context, runID string, args []string) (result model.DownloadResult) {
	if len(args) != ExpectedArgs {
		log.Emit(logger.ERROR, "[%s] Expected %d arguments, got %d", runID, ExpectedArgs, len(args))
		return model.NewFailureResult(UsageMessage)
	}

	req := model.DownloadRequest{
		URL:        args[0],
		ClipStart:  args[1],
		ClipEnd:    args[2],
		OutputPath: args[3],
	}
	if err := req.Validate(); err != nil {
		log.Emit(logger.ERROR, "[%s] %v", runID, err)
		return model.NewFailureResult(UsageMessage)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Emit(logger.FATAL, "[%s] Unexpected error: %v", runID, r)
			cleanup(req.OutputPath)
			result = model.NewFailureResult(fmt.Sprintf("Unexpected error: %v", r))
		}
	}()

	log.Emit(logger.INFO, "[%s] Download request: %s", runID, req.URL)
	log.Emit(logger.DEBUG, "[%s] Clip range %s-%s is left to the caller", runID, req.ClipStart, req.ClipEnd)

	if err := platform.EnsureParentDirectory(req.OutputPath); err != nil {
		log.Emit(logger.ERROR, "[%s] %v", runID, err)
		return model.NewFailureResult(err.Error())
	}

	if !a.checker.Check(ctx) {
		return model.NewFailureResult(ConnectivityMessage)
	}

	outcome, err := a.downloader.Download(ctx, req)
	if err != nil {
		log.Emit(logger.ERROR, "[%s] %v", runID, err)
		return model.NewFailureResult(err.Error())
	}
	for _, attempt := range outcome.Attempts {
		log.Emit(logger.DEBUG, "[%s] %s", runID, attempt.Describe())
	}

	if !outcome.Succeeded() || !platform.ExceedsMinimumSize(req.OutputPath, a.minFileSize) {
		cleanup(req.OutputPath)
		log.Emit(logger.ERROR, "[%s] %s", runID, DownloadMessage)
		return model.NewFailureResult(DownloadMessage)
	}

	res := a.resolution.Report(req.OutputPath)

	log.Emit(logger.SUCCESS, "[%s] Video downloaded to %s (%s)", runID, req.OutputPath, res.Label)
	return model.NewSuccessResult(res.Label, req.OutputPath)
}

func cleanup(path string) {
	if err := platform.RemoveIfExists(path); err != nil {
		log.Emit(logger.ERROR, "Failed to remove %s: %v", path, err)
	}
}
