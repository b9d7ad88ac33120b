package platform

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// NetscapeCookieHeader is the first line every Netscape cookie file starts with
const NetscapeCookieHeader = "# Netscape HTTP Cookie File"

var (
	// ErrCookieFileMissing indicates no cookie file exists at the configured path.
	ErrCookieFileMissing = errors.New("cookie file not found")
	// ErrInvalidCookieFile indicates the file does not start with the Netscape header.
	ErrInvalidCookieFile = errors.New("cookie file is not a valid Netscape format file")
)

// ValidateCookieFile checks that path exists and that its first line starts
// with the Netscape cookie header. A nil error means the file may be passed
// to yt-dlp.
func ValidateCookieFile(path string) error {
	if path == "" {
		return ErrCookieFileMissing
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrCookieFileMissing
		}
		return fmt.Errorf("failed to open cookie file: %w", err)
	}
	defer f.Close()

	firstLine, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read cookie file: %w", err)
	}

	if !strings.HasPrefix(strings.TrimSpace(firstLine), NetscapeCookieHeader) {
		return ErrInvalidCookieFile
	}

	return nil
}
