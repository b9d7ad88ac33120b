package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ytget/ytdlp/errs"
	"github.com/ytget/ytdlp/types"
	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/yt-clipper/internal/logger"
	"github.com/ytget/yt-clipper/internal/model"
	"github.com/ytget/yt-clipper/internal/platform"
)

// LibraryProviderName identifies the ytdlp library provider in attempts and logs
const LibraryProviderName = "ytdlp-library"

// Stream selection for the library. ResolveSelector only drives the metadata
// lookup; the downloaded stream is always picked by SelectProgressive.
const (
	ProgressiveContainer = "mp4"
	ResolveSelector      = "best"
)

// URL shapes the library can extract from
const (
	ShortLinkHost  = "youtu.be"
	CanonicalHost  = "www.youtube.com"
	MobileHost     = "m.youtube.com"
	WatchPath      = "/watch"
	ItagSelector   = "itag=%d"
	AudioCodecMP4A = "mp4a"
)

// WatchHosts are the hosts serving /watch?v= pages
var WatchHosts = []string{"youtube.com", CanonicalHost, MobileHost}

var (
	// ErrProviderDisabled indicates the fallback provider is turned off by configuration.
	ErrProviderDisabled = errors.New("alternative provider disabled")
	// ErrUnsupportedURL indicates the library cannot extract the given URL.
	ErrUnsupportedURL = errors.New("URL not supported by alternative provider")
	// ErrNoProgressiveStream indicates the video has no mp4 stream carrying both audio and video.
	ErrNoProgressiveStream = errors.New("no progressive mp4 stream available")
)

var heightLabelRe = regexp.MustCompile(`([0-9]{3,4})p`)

var libLog = logger.Get("ytdlp-lib")

// LibraryClient is the part of github.com/ytget/ytdlp/v2 the provider needs
type LibraryClient interface {
	// Formats lists every stream the video offers
	Formats(ctx context.Context, videoURL string) ([]types.Format, error)
	// Download fetches the stream matching selector into outputPath
	Download(ctx context.Context, videoURL, selector, outputPath string) error
}

// LibraryConfig configures the library provider
type LibraryConfig struct {
	Enabled     bool
	UserAgent   string
	MinFileSize int64
	Timeout     time.Duration // response header timeout for library requests
}

// LibraryProvider downloads the highest resolution progressive mp4 through
// github.com/ytget/ytdlp/v2, without the yt-dlp executable
type LibraryProvider struct {
	cfg    LibraryConfig
	client LibraryClient
}

// NewLibraryProvider creates the library provider
func NewLibraryProvider(cfg LibraryConfig) *LibraryProvider {
	return &LibraryProvider{
		cfg:    cfg,
		client: newYtdlpClient(cfg.UserAgent, cfg.Timeout),
	}
}

// WithClient replaces the library client
func (p *LibraryProvider) WithClient(client LibraryClient) *LibraryProvider {
	p.client = client
	return p
}

// Name returns the provider name
func (p *LibraryProvider) Name() string {
	return LibraryProviderName
}

// Supports reports whether the library can extract rawURL
func (p *LibraryProvider) Supports(rawURL string) bool {
	_, ok := libraryURL(rawURL)
	return ok
}

// libraryURL returns rawURL in a form the library extracts from. Mobile
// watch pages are rewritten to the canonical host.
func libraryURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	if host == ShortLinkHost {
		return rawURL, strings.TrimPrefix(u.Path, "/") != ""
	}
	for _, h := range WatchHosts {
		if host != h {
			continue
		}
		if !strings.HasPrefix(u.Path, WatchPath) || u.Query().Get("v") == "" {
			return "", false
		}
		if host == MobileHost {
			u.Host = CanonicalHost
			return u.String(), true
		}
		return rawURL, true
	}
	return "", false
}

// Attempt downloads req once. A disabled provider or an unsupported URL
// yields Unavailable. Errors and panics from the library become Failed.
func (p *LibraryProvider) Attempt(ctx context.Context, req model.DownloadRequest) (attempt model.Attempt) {
	attempt = model.Attempt{Provider: p.Name()}

	if !p.cfg.Enabled {
		libLog.Emit(logger.INFO, "Alternative download method disabled, skipping")
		attempt.Outcome = model.AttemptUnavailable
		attempt.Err = ErrProviderDisabled
		return attempt
	}

	videoURL, ok := libraryURL(req.URL)
	if !ok {
		libLog.Emit(logger.INFO, "Alternative download method not applicable to %s, skipping", req.URL)
		attempt.Outcome = model.AttemptUnavailable
		attempt.Err = ErrUnsupportedURL
		return attempt
	}

	defer func() {
		if r := recover(); r != nil {
			libLog.Emit(logger.ERROR, "Alternative download method panicked: %v", r)
			p.cleanup(req.OutputPath)
			attempt.Outcome = model.AttemptFailed
			attempt.Err = fmt.Errorf("alternative provider panic: %v", r)
		}
	}()

	libLog.Emit(logger.INFO, "Trying alternative download method with ytdlp library...")
	format, err := p.fetch(ctx, videoURL, req.OutputPath)
	if err != nil {
		libLog.Emit(logger.ERROR, "Alternative download method failed (%s): %v", libraryFailureReason(err), err)
		p.cleanup(req.OutputPath)
		attempt.Outcome = model.AttemptFailed
		attempt.Err = err
		return attempt
	}

	if !platform.ExceedsMinimumSize(req.OutputPath, p.cfg.MinFileSize) {
		libLog.Emit(logger.ERROR, "Alternative download method produced no usable file")
		p.cleanup(req.OutputPath)
		attempt.Outcome = model.AttemptFailed
		attempt.Err = ErrUndersized
		return attempt
	}

	size, _ := platform.FileSize(req.OutputPath)
	libLog.Emit(logger.SUCCESS, "Alternative download method succeeded! (%s)", humanize.Bytes(uint64(size)))
	attempt.Outcome = model.AttemptSucceeded
	attempt.Strategy = fmt.Sprintf("progressive %s (%s)", format.Quality, fmt.Sprintf(ItagSelector, format.Itag))
	return attempt
}

// fetch picks the progressive stream and downloads it
func (p *LibraryProvider) fetch(ctx context.Context, videoURL, outputPath string) (types.Format, error) {
	available, err := p.client.Formats(ctx, videoURL)
	if err != nil {
		return types.Format{}, err
	}

	format, ok := SelectProgressive(available)
	if !ok {
		return types.Format{}, ErrNoProgressiveStream
	}

	libLog.Emit(logger.INFO, "Selected progressive stream itag %d (%s, %s)", format.Itag, format.Quality, format.MimeType)
	return format, p.client.Download(ctx, videoURL, fmt.Sprintf(ItagSelector, format.Itag), outputPath)
}

// SelectProgressive returns the tallest mp4 stream that carries both video
// and audio, preferring the higher bitrate between equal heights
func SelectProgressive(available []types.Format) (types.Format, bool) {
	var best types.Format
	found := false
	for _, f := range available {
		if !isProgressiveMP4(f) {
			continue
		}
		if !found || betterStream(f, best) {
			best = f
			found = true
		}
	}
	return best, found
}

// isProgressiveMP4 matches mime types like
// video/mp4; codecs="avc1.42001E, mp4a.40.2"
func isProgressiveMP4(f types.Format) bool {
	mime := strings.ToLower(f.MimeType)
	if !strings.HasPrefix(mime, "video/"+ProgressiveContainer) {
		return false
	}

	i := strings.Index(mime, "codecs=")
	if i < 0 {
		return false
	}
	codecs := strings.Split(strings.Trim(mime[i+len("codecs="):], `" `), ",")
	return len(codecs) >= 2 && strings.Contains(mime[i:], AudioCodecMP4A)
}

func betterStream(candidate, current types.Format) bool {
	ch, cur := streamHeight(candidate), streamHeight(current)
	if ch != cur {
		return ch > cur
	}
	return candidate.Bitrate > current.Bitrate
}

func streamHeight(f types.Format) int {
	m := heightLabelRe.FindStringSubmatch(f.Quality)
	if len(m) < 2 {
		return 0
	}
	h, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return h
}

func (p *LibraryProvider) cleanup(outputPath string) {
	if err := platform.RemoveIfExists(outputPath); err != nil {
		libLog.Emit(logger.ERROR, "Failed to clean up %s: %v", outputPath, err)
	}
}

// libraryFailureReason classifies a library error for the diagnostic log
func libraryFailureReason(err error) string {
	switch {
	case errors.Is(err, errs.ErrPrivate):
		return "private video"
	case errors.Is(err, errs.ErrAgeRestricted):
		return "age restricted"
	case errors.Is(err, errs.ErrGeoBlocked):
		return "geo blocked"
	case errors.Is(err, errs.ErrRateLimited):
		return "rate limited"
	case errors.Is(err, errs.ErrCipherFailed):
		return "signature decipher failed"
	case errors.Is(err, errs.ErrVideoUnavailable):
		return "video unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out"
	default:
		return "download error"
	}
}

// userAgentTransport sets the User-Agent header on requests that lack one
type userAgentTransport struct {
	userAgent string
	next      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}
	return t.next.RoundTrip(req)
}

// ytdlpClient drives github.com/ytget/ytdlp/v2 over a shared HTTP client
type ytdlpClient struct {
	http *http.Client
}

func newYtdlpClient(userAgent string, timeout time.Duration) *ytdlpClient {
	// Header timeout only: a whole-request timeout would cut off long media transfers.
	return &ytdlpClient{
		http: &http.Client{
			Transport: &userAgentTransport{
				userAgent: userAgent,
				next: &http.Transport{
					Proxy:                 http.ProxyFromEnvironment,
					ForceAttemptHTTP2:     false,
					MaxIdleConns:          10,
					IdleConnTimeout:       90 * time.Second,
					ResponseHeaderTimeout: timeout,
				},
			},
		},
	}
}

func (c *ytdlpClient) Formats(ctx context.Context, videoURL string) ([]types.Format, error) {
	_, info, err := ytdlp.New().
		WithFormat(ResolveSelector, ProgressiveContainer).
		WithHTTPClient(c.http).
		ResolveURL(ctx, videoURL)
	if err != nil {
		return nil, err
	}
	return info.Formats, nil
}

func (c *ytdlpClient) Download(ctx context.Context, videoURL, selector, outputPath string) error {
	_, err := ytdlp.New().
		WithFormat(selector, ProgressiveContainer).
		WithHTTPClient(c.http).
		WithOutputPath(outputPath).
		Download(ctx, videoURL)
	return err
}
