package download

// Package download implements the video retrieval pipeline: an ordered list
// of providers (the yt-dlp CLI with its format strategies, then the
// github.com/ytget/ytdlp/v2 library) tried one after another until one
// leaves a valid file at the requested output path.
