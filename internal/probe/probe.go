package probe

import (
	"errors"
	"fmt"

	"github.com/floostack/transcoder/ffmpeg"

	"github.com/ytget/yt-clipper/internal/logger"
	"github.com/ytget/yt-clipper/internal/model"
)

// Resolution labels
const (
	Label1080p = "1080p"
	Label720p  = "720p"
	Label480p  = "480p"
)

// Height thresholds for the labels above
const (
	Height1080 = 1080
	Height720  = 720
	Height480  = 480
)

// VideoCodecType is the ffprobe codec_type of video streams
const VideoCodecType = "video"

var (
	// ErrNoVideoStream indicates ffprobe reported no video stream.
	ErrNoVideoStream = errors.New("no video stream found")
	// ErrInvalidHeight indicates the probed height is not a positive integer.
	ErrInvalidHeight = errors.New("invalid video height")
)

var log = logger.Get("Probe")

// FFprobe reads stream metadata with the ffprobe binary
type FFprobe struct {
	binPath string
}

// NewFFprobe creates a prober running the ffprobe executable at binPath
func NewFFprobe(binPath string) *FFprobe {
	return &FFprobe{binPath: binPath}
}

// Height returns the height of the first video stream in path
func (f *FFprobe) Height(path string) (int, error) {
	cfg := ffmpeg.Config{FfprobeBinPath: f.binPath}
	metadata, err := ffmpeg.New(&cfg).Input(path).GetMetadata()
	if err != nil {
		return 0, fmt.Errorf("failed to extract file metadata information using ffprobe: %s", err.Error())
	}

	for _, stream := range metadata.GetStreams() {
		if stream.GetCodecType() == VideoCodecType {
			return stream.GetHeight(), nil
		}
	}

	return 0, ErrNoVideoStream
}

// Label buckets a pixel height into a coarse quality label
func Label(height int) string {
	switch {
	case height >= Height1080:
		return Label1080p
	case height >= Height720:
		return Label720p
	case height >= Height480:
		return Label480p
	default:
		return fmt.Sprintf("%dp", height)
	}
}

// Reporter turns a probed height into the advisory resolution of a download
type Reporter struct {
	prober HeightProber
}

// NewReporter creates a reporter backed by prober
func NewReporter(prober HeightProber) *Reporter {
	return &Reporter{prober: prober}
}

// Report probes path. It never fails: any probe problem, including a
// panic, yields the "unknown" label with a ProbeFailed outcome.
func (r *Reporter) Report(path string) (res model.Resolution) {
	defer func() {
		if p := recover(); p != nil {
			log.Emit(logger.WARNING, "Resolution probe panicked: %v", p)
			res = unknown(fmt.Errorf("probe panic: %v", p))
		}
	}()

	height, err := r.prober.Height(path)
	if err != nil {
		log.Emit(logger.WARNING, "Could not determine resolution of %s: %v", path, err)
		return unknown(err)
	}

	if height <= 0 {
		log.Emit(logger.WARNING, "Could not determine resolution of %s: height %d", path, height)
		return unknown(fmt.Errorf("%w: %d", ErrInvalidHeight, height))
	}

	label := Label(height)
	log.Emit(logger.INFO, "Video height %d reported as %s", height, label)
	return model.Resolution{
		Label:   label,
		Height:  height,
		Outcome: model.ProbeOK,
	}
}

func unknown(err error) model.Resolution {
	return model.Resolution{
		Label:   model.UnknownResolution,
		Outcome: model.ProbeFailed,
		Err:     err,
	}
}
