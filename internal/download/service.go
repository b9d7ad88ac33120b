package download

import (
	"context"
	"fmt"

	"github.com/ytget/yt-clipper/internal/logger"
	"github.com/ytget/yt-clipper/internal/model"
	"github.com/ytget/yt-clipper/internal/platform"
)

var log = logger.Get("Download")

// Outcome is the result of a full download run across all providers
type Outcome struct {
	Final    model.Attempt   // the successful attempt, or the last one tried
	Attempts []model.Attempt // every attempt in the order it ran
}

// Succeeded returns true if some provider left a valid file
func (o Outcome) Succeeded() bool {
	return o.Final.Outcome.IsSuccess()
}

// Service handles download operations by trying providers in order
type Service struct {
	providers []Provider
}

// NewService creates a new download service. Providers are tried in the
// order given; the first success wins.
func NewService(providers ...Provider) *Service {
	return &Service{providers: providers}
}

// Providers returns the providers in the order they are tried
func (s *Service) Providers() []Provider {
	return s.providers
}

// Download removes any stale file at the output path, then runs the
// providers one by one until one succeeds. The returned error is only set
// when the stale file could not be removed; provider failures are reported
// through the Outcome.
func (s *Service) Download(ctx context.Context, req model.DownloadRequest) (Outcome, error) {
	if err := platform.RemoveIfExists(req.OutputPath); err != nil {
		return Outcome{}, fmt.Errorf("failed to remove stale output: %w", err)
	}

	outcome := Outcome{Attempts: make([]model.Attempt, 0, len(s.providers))}
	for i, provider := range s.providers {
		if i > 0 {
			log.Emit(logger.WARNING, "%s failed, trying %s...", outcome.Final.Provider, provider.Name())
		}

		attempt := provider.Attempt(ctx, req)
		outcome.Attempts = append(outcome.Attempts, attempt)
		outcome.Final = attempt
		log.Emit(logger.DEBUG, "Attempt finished: %s", attempt.Describe())

		if attempt.Outcome.IsSuccess() {
			return outcome, nil
		}

		// Providers clean up after themselves; this keeps the invariant if one does not.
		if err := platform.RemoveIfExists(req.OutputPath); err != nil {
			log.Emit(logger.ERROR, "Failed to remove output after %s: %v", provider.Name(), err)
		}
	}

	if len(s.providers) == 0 {
		outcome.Final = model.Attempt{Outcome: model.AttemptFailed, Err: fmt.Errorf("no download providers configured")}
	}

	log.Emit(logger.ERROR, "All download methods failed")
	return outcome, nil
}
