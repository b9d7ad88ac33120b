package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-clipper/internal/download"
	"github.com/ytget/yt-clipper/internal/model"
)

const testURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

type fakeChecker struct {
	ok    bool
	calls int
}

func (f *fakeChecker) Check(ctx context.Context) bool {
	f.calls++
	return f.ok
}

type fakeDownloader struct {
	writeBytes int
	outcome    model.AttemptOutcome
	err        error
	panicWith  interface{}
	calls      int
}

func (f *fakeDownloader) Download(ctx context.Context, req model.DownloadRequest) (download.Outcome, error) {
	f.calls++
	if f.writeBytes > 0 {
		_ = os.WriteFile(req.OutputPath, make([]byte, f.writeBytes), 0o644)
	}
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	attempt := model.Attempt{Provider: "fake", Outcome: f.outcome}
	return download.Outcome{Final: attempt, Attempts: []model.Attempt{attempt}}, f.err
}

type fakeResolution struct {
	label string
	calls int
}

func (f *fakeResolution) Report(path string) model.Resolution {
	f.calls++
	return model.Resolution{Label: f.label, Outcome: model.ProbeOK}
}

type harness struct {
	checker    *fakeChecker
	downloader *fakeDownloader
	resolution *fakeResolution
	app        *App
}

func newHarness(connected bool, downloader *fakeDownloader) *harness {
	h := &harness{
		checker:    &fakeChecker{ok: connected},
		downloader: downloader,
		resolution: &fakeResolution{label: "720p"},
	}
	h.app = New(h.checker, h.downloader, h.resolution, 1000)
	return h
}

func runApp(t *testing.T, h *harness, args []string) (int, model.DownloadResult) {
	t.Helper()

	var stdout bytes.Buffer
	code := h.app.Run(t.Context(), args, &stdout)

	var result model.DownloadResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result), "stdout must hold one JSON object: %q", stdout.String())
	return code, result
}

func outputArgs(t *testing.T) ([]string, string) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "nested", "dir", "video.mp4")
	return []string{testURL, "00:00:05", "00:00:30", out}, out
}

func TestRun_Success(t *testing.T) {
	h := newHarness(true, &fakeDownloader{writeBytes: 4096, outcome: model.AttemptSucceeded})
	args, out := outputArgs(t)

	code, result := runApp(t, h, args)

	assert.Equal(t, ExitSuccess, code)
	assert.True(t, result.Success)
	assert.Equal(t, out, result.OutputPath)
	assert.Equal(t, "720p", result.Resolution)
	assert.Empty(t, result.Error)
	assert.FileExists(t, out)
	assert.Equal(t, 1, h.resolution.calls)
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"three args", []string{testURL, "0", "10"}},
		{"five args", []string{testURL, "0", "10", "out.mp4", "extra"}},
		{"empty url", []string{"", "0", "10", "out.mp4"}},
		{"empty output", []string{testURL, "0", "10", ""}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := newHarness(true, &fakeDownloader{outcome: model.AttemptSucceeded})

			code, result := runApp(t, h, test.args)

			assert.Equal(t, ExitFailure, code)
			assert.False(t, result.Success)
			assert.Equal(t, UsageMessage, result.Error)
			assert.Zero(t, h.checker.calls)
			assert.Zero(t, h.downloader.calls)
		})
	}
}

func TestRun_BareVideoIDReachesDownloader(t *testing.T) {
	h := newHarness(true, &fakeDownloader{writeBytes: 4096, outcome: model.AttemptSucceeded})
	args, out := outputArgs(t)
	args[0] = "dQw4w9WgXcQ"

	code, result := runApp(t, h, args)

	assert.Equal(t, ExitSuccess, code)
	assert.True(t, result.Success)
	assert.Equal(t, out, result.OutputPath)
	assert.Equal(t, 1, h.checker.calls)
	assert.Equal(t, 1, h.downloader.calls)
}

func TestRun_ConnectivityFailureSkipsProviders(t *testing.T) {
	h := newHarness(false, &fakeDownloader{writeBytes: 4096, outcome: model.AttemptSucceeded})
	args, out := outputArgs(t)

	code, result := runApp(t, h, args)

	assert.Equal(t, ExitFailure, code)
	assert.False(t, result.Success)
	assert.Equal(t, ConnectivityMessage, result.Error)
	assert.Zero(t, h.downloader.calls)
	assert.NoFileExists(t, out)
}

func TestRun_AllProvidersFailedLeavesNoFile(t *testing.T) {
	h := newHarness(true, &fakeDownloader{writeBytes: 4096, outcome: model.AttemptFailed})
	args, out := outputArgs(t)

	code, result := runApp(t, h, args)

	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, DownloadMessage, result.Error)
	assert.NoFileExists(t, out)
	assert.Zero(t, h.resolution.calls)
}

func TestRun_UndersizedFileRejected(t *testing.T) {
	h := newHarness(true, &fakeDownloader{writeBytes: 1000, outcome: model.AttemptSucceeded})
	args, out := outputArgs(t)

	code, result := runApp(t, h, args)

	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, DownloadMessage, result.Error)
	assert.NoFileExists(t, out)
}

func TestRun_DownloaderError(t *testing.T) {
	h := newHarness(true, &fakeDownloader{err: errors.New("failed to remove stale output: permission denied")})
	args, _ := outputArgs(t)

	code, result := runApp(t, h, args)

	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, result.Error, "permission denied")
}

func TestRun_PanicIsRecovered(t *testing.T) {
	h := newHarness(true, &fakeDownloader{writeBytes: 4096, panicWith: "index out of range"})
	args, out := outputArgs(t)

	code, result := runApp(t, h, args)

	assert.Equal(t, ExitFailure, code)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "index out of range")
	assert.NoFileExists(t, out)
}

func TestRun_UnknownResolutionStillSucceeds(t *testing.T) {
	h := newHarness(true, &fakeDownloader{writeBytes: 4096, outcome: model.AttemptSucceeded})
	h.resolution.label = model.UnknownResolution
	args, _ := outputArgs(t)

	code, result := runApp(t, h, args)

	assert.Equal(t, ExitSuccess, code)
	assert.True(t, result.Success)
	assert.Equal(t, model.UnknownResolution, result.Resolution)
}
