package main

import (
	"context"
	"os"

	"github.com/ytget/yt-clipper/internal/config"
	"github.com/ytget/yt-clipper/internal/fonts"
	"github.com/ytget/yt-clipper/internal/logger"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	// Progress belongs on stdout for this command
	logger.Log.SetOutput(os.Stdout)

	log := logger.Get("Main")

	settings, err := config.Load()
	if err != nil {
		log.Emit(logger.FATAL, "%v", err)
		os.Exit(1)
	}

	logger.Log.SetMinStatus(logger.ParseStatus(settings.LogLevel))
	log.Emit(logger.DEBUG, "setup-fonts v%s starting...", version)

	fonts.NewFetcher(settings.Fonts.Dir, settings.Fonts.Timeout).
		FetchAll(context.Background(), fonts.DefaultManifest())
}
