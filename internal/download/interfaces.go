package download

import (
	"context"

	"github.com/ytget/yt-clipper/internal/model"
)

// Provider is one way of obtaining the video for a request. Attempt must
// never panic or return a half-written file: on any outcome other than
// Succeeded the output path is left absent.
type Provider interface {
	Name() string
	Attempt(ctx context.Context, req model.DownloadRequest) model.Attempt
}

// Downloader defines the interface for the download service.
type Downloader interface {
	Download(ctx context.Context, req model.DownloadRequest) (Outcome, error)
}
