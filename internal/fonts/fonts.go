package fonts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ytget/yt-clipper/internal/logger"
	"github.com/ytget/yt-clipper/internal/platform"
)

// ChunkSize is the copy buffer used while streaming a font to disk
const ChunkSize = 8192

// InterSourceURL is the Google Fonts file every default entry points at
const InterSourceURL = "https://fonts.gstatic.com/s/inter/v13/UcCO3FwrK3iLTeHuS_fvQtMwCp50KnMw2boKoduKmMEVuLyfAZ9hiA.woff2"

// Closing notes printed after the summary
const (
	InterNote          = "Note: Inter fonts downloaded from Google Fonts."
	SystemFontReminder = "For Neue Haas Grotesk Display, please ensure it's installed on your system."
)

// ErrInvalidFilename indicates a manifest filename that would escape the fonts directory.
var ErrInvalidFilename = errors.New("invalid font filename")

var log = logger.Get("Fonts")

// Font is one manifest entry
type Font struct {
	Filename string
	URL      string
}

// DefaultManifest returns the fonts used by the video template
func DefaultManifest() []Font {
	return []Font{
		{Filename: "Inter-Thin.ttf", URL: InterSourceURL},
		{Filename: "Inter-ExtraBold.ttf", URL: InterSourceURL},
		{Filename: "Inter-Light.ttf", URL: InterSourceURL},
	}
}

// Summary counts the fonts of a manifest that were downloaded
type Summary struct {
	Succeeded int
	Total     int
}

func (s Summary) String() string {
	return fmt.Sprintf("Setup complete! %d/%d fonts downloaded.", s.Succeeded, s.Total)
}

// Fetcher downloads font files into a directory
type Fetcher struct {
	dir    string
	client *http.Client
	out    io.Writer // summary destination, independent of the log level
}

// NewFetcher creates a fetcher writing into dir; each download is bounded by timeout
func NewFetcher(dir string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		dir:    dir,
		client: &http.Client{Timeout: timeout},
		out:    os.Stdout,
	}
}

// WithOutput replaces the writer receiving the final summary
func (f *Fetcher) WithOutput(w io.Writer) *Fetcher {
	f.out = w
	return f
}

// WithHTTPClient replaces the HTTP client
func (f *Fetcher) WithHTTPClient(client *http.Client) *Fetcher {
	f.client = client
	return f
}

// FetchAll downloads every entry of manifest. A failed entry is logged and
// skipped; the rest are still attempted.
func (f *Fetcher) FetchAll(ctx context.Context, manifest []Font) Summary {
	log.Emit(logger.INFO, "Setting up fonts in %s...", f.dir)
	summary := Summary{Total: len(manifest)}

	if err := platform.CreateDirectoryIfNotExists(f.dir); err != nil {
		log.Emit(logger.ERROR, "❌ Failed to create %s: %v", f.dir, err)
		f.printSummary(summary)
		return summary
	}

	warnSharedSources(manifest)

	for _, font := range manifest {
		size, err := f.Fetch(ctx, font)
		if err != nil {
			log.Emit(logger.ERROR, "❌ Failed to download %s: %v", font.Filename, err)
			continue
		}
		log.Emit(logger.SUCCESS, "✅ Downloaded %s (%s)", font.Filename, humanize.Bytes(uint64(size)))
		summary.Succeeded++
	}

	f.printSummary(summary)
	return summary
}

func (f *Fetcher) printSummary(summary Summary) {
	fmt.Fprintf(f.out, "\n✅ %s\n%s\n%s\n", summary, InterNote, SystemFontReminder)
}

// Fetch streams one font to <dir>/<filename> and returns the bytes written.
// Partial files are removed on failure.
func (f *Fetcher) Fetch(ctx context.Context, font Font) (int64, error) {
	if font.Filename == "" || filepath.Base(font.Filename) != font.Filename {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFilename, font.Filename)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, font.URL, nil)
	if err != nil {
		return 0, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("unexpected status %s", resp.Status)
	}

	path := filepath.Join(f.dir, font.Filename)
	out, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	written, err := io.CopyBuffer(out, resp.Body, make([]byte, ChunkSize))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = platform.RemoveIfExists(path)
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return written, nil
}

// warnSharedSources flags manifest entries that download the same file
// under different names
func warnSharedSources(manifest []Font) {
	seen := make(map[string]string, len(manifest))
	for _, font := range manifest {
		if first, ok := seen[font.URL]; ok {
			log.Emit(logger.WARNING, "%s uses the same source as %s", font.Filename, first)
			continue
		}
		seen[font.URL] = font.Filename
	}
}
