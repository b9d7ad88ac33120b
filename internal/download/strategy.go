package download

// yt-dlp flags
const (
	FormatFlag              = "-f"
	MergeOutputFormatFlag   = "--merge-output-format"
	NoCheckCertificatesFlag = "--no-check-certificates"
	UserAgentFlag           = "--user-agent"
	OutputFlag              = "-o"
	CookiesFlag             = "--cookies"
)

// Format selectors, most selective first
const (
	SplitStreamsFormat  = "bestvideo[ext=mp4][height>=720]+bestaudio[ext=m4a]/bestvideo[ext=mp4][height>=480]+bestaudio[ext=m4a]"
	SingleFileMP4Format = "best[ext=mp4][height>=720]/best[ext=mp4][height>=480]/best[ext=mp4]"
	AnyBestFormat       = "best"
	MergeContainerMP4   = "mp4"
)

// Strategy is one complete yt-dlp invocation at a given quality tier
type Strategy struct {
	Name   string
	Format string
	Flags  []string // extra flags placed right after the format selector
}

// DefaultStrategies returns the strategies in the order they are tried:
// merged 720p+ DASH streams, then the best single mp4, then anything.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{
			Name:   "split-streams-720p",
			Format: SplitStreamsFormat,
			Flags:  []string{MergeOutputFormatFlag, MergeContainerMP4},
		},
		{
			Name:   "single-file-mp4",
			Format: SingleFileMP4Format,
		},
		{
			Name:   "any-best",
			Format: AnyBestFormat,
		},
	}
}

// Args builds the yt-dlp argument list, without the executable. The URL is
// always the last element.
func (s Strategy) Args(userAgent, outputPath, url string) []string {
	args := make([]string, 0, 10+len(s.Flags))
	args = append(args, FormatFlag, s.Format)
	args = append(args, s.Flags...)
	args = append(args,
		NoCheckCertificatesFlag,
		UserAgentFlag, userAgent,
		OutputFlag, outputPath,
		url,
	)
	return args
}

// insertBeforeLast returns a copy of args with extra placed right before
// the final element.
func insertBeforeLast(args []string, extra ...string) []string {
	if len(args) == 0 {
		return append([]string{}, extra...)
	}

	last := len(args) - 1
	out := make([]string, 0, len(args)+len(extra))
	out = append(out, args[:last]...)
	out = append(out, extra...)
	out = append(out, args[last])
	return out
}
