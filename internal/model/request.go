package model

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RunIDPrefix prefixes every run identifier
const RunIDPrefix = "run-"

var validate = validator.New()

// DownloadRequest is the immutable input of a single download run
type DownloadRequest struct {
	URL        string `validate:"required"` // URL or bare video ID, handed to yt-dlp as is
	ClipStart  string `validate:"required"` // accepted for the caller, never used here
	ClipEnd    string `validate:"required"` // accepted for the caller, never used here
	OutputPath string `validate:"required"`
}

// Validate checks the request fields
func (r DownloadRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid download request: %w", err)
	}
	return nil
}

// Attempt records a single provider attempt and how it ended
type Attempt struct {
	Provider string
	Strategy string // strategy that produced the file, empty if none
	Outcome  AttemptOutcome
	Err      error // reason for Failed or Unavailable outcomes
}

// Describe returns a one-line summary of the attempt for diagnostics
func (a Attempt) Describe() string {
	s := fmt.Sprintf("%s: %s", a.Provider, a.Outcome)
	if a.Strategy != "" {
		s += fmt.Sprintf(" (%s)", a.Strategy)
	}
	if a.Err != nil {
		s += fmt.Sprintf(" - %v", a.Err)
	}
	return s
}

// UnknownResolution is the label reported when the height cannot be probed
const UnknownResolution = "unknown"

// Resolution is the advisory quality label of a downloaded file
type Resolution struct {
	Label   string
	Height  int
	Outcome ProbeOutcome
	Err     error
}

// NewRunID generates a run identifier using UUID v7 so runs sort by start time
func NewRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(RunIDPrefix+"%d", time.Now().UnixNano())
	}
	return RunIDPrefix + id.String()
}
