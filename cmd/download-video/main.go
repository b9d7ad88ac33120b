package main

import (
	"context"
	"os"

	"github.com/ytget/yt-clipper/internal/app"
	"github.com/ytget/yt-clipper/internal/config"
	"github.com/ytget/yt-clipper/internal/download"
	"github.com/ytget/yt-clipper/internal/logger"
	"github.com/ytget/yt-clipper/internal/model"
	"github.com/ytget/yt-clipper/internal/platform"
	"github.com/ytget/yt-clipper/internal/probe"
	"github.com/ytget/yt-clipper/internal/report"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

var log = logger.Get("Main")

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Emit(logger.FATAL, "%v", err)
		_ = report.NewEmitter(os.Stdout).Emit(model.NewFailureResult(err.Error()))
		os.Exit(app.ExitFailure)
	}

	logger.Log.SetMinStatus(logger.ParseStatus(settings.LogLevel))
	log.Emit(logger.DEBUG, "download-video v%s starting...", version)

	checker := platform.NewConnectivityChecker(
		settings.Connectivity.DNSHost,
		settings.Connectivity.HTTPURL,
		settings.Connectivity.Timeout,
	)

	downloadSvc := download.NewService(
		download.NewCLIProvider(download.CLIConfig{
			Binary:      settings.Download.YtDlpPath,
			UserAgent:   settings.Download.UserAgent,
			CookieFile:  settings.Download.CookieFile,
			MinFileSize: settings.Download.MinFileSize,
		}, platform.NewExecRunner()),
		download.NewLibraryProvider(download.LibraryConfig{
			Enabled:     settings.Fallback.Enabled,
			UserAgent:   settings.Download.UserAgent,
			MinFileSize: settings.Download.MinFileSize,
			Timeout:     settings.Fallback.Timeout,
		}),
	)

	resolution := probe.NewReporter(probe.NewFFprobe(settings.Download.FfprobePath))

	application := app.New(checker, downloadSvc, resolution, settings.Download.MinFileSize)
	os.Exit(application.Run(context.Background(), os.Args[1:], os.Stdout))
}
