package download

import (
	"context"
	"os"

	"github.com/ytget/yt-clipper/internal/model"
	"github.com/ytget/yt-clipper/internal/platform"
)

const testURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

// fakeStep describes what one fake yt-dlp invocation does
type fakeStep struct {
	writeBytes int // bytes written to the -o path, 0 writes nothing
	exitCode   int
	err        error
}

// fakeRunner replays steps in order and records every invocation
type fakeRunner struct {
	steps []fakeStep
	calls [][]string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (platform.CommandResult, error) {
	idx := len(f.calls)
	f.calls = append(f.calls, append([]string{name}, args...))

	step := fakeStep{exitCode: 1}
	if idx < len(f.steps) {
		step = f.steps[idx]
	}

	if step.writeBytes > 0 {
		if out := valueAfter(args, OutputFlag); out != "" {
			_ = os.WriteFile(out, make([]byte, step.writeBytes), 0o644)
		}
	}

	return platform.CommandResult{
		Stdout:   "[download] fake",
		Stderr:   "",
		ExitCode: step.exitCode,
	}, step.err
}

func valueAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func containsArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

// fakeProvider is a scripted Provider
type fakeProvider struct {
	name       string
	outcome    model.AttemptOutcome
	writeBytes int
	calls      int
	sawFile    bool // whether the output existed when Attempt started
}

func (f *fakeProvider) Name() string {
	return f.name
}

func (f *fakeProvider) Attempt(ctx context.Context, req model.DownloadRequest) model.Attempt {
	f.calls++
	if _, err := os.Stat(req.OutputPath); err == nil {
		f.sawFile = true
	}
	if f.writeBytes > 0 {
		_ = os.WriteFile(req.OutputPath, make([]byte, f.writeBytes), 0o644)
	}
	return model.Attempt{Provider: f.name, Outcome: f.outcome}
}
