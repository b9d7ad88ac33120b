package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Operating system constants
const (
	OSWindows = "windows"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Downloader executable names
const (
	YtDlpCommand       = "yt-dlp"
	YtDlpWindowsBinary = "yt-dlp.exe"
)

// DefaultYtDlpPath returns the yt-dlp executable to run on this platform.
// Windows installs ship yt-dlp.exe next to the binary; elsewhere it is
// looked up on PATH.
func DefaultYtDlpPath() string {
	if runtime.GOOS != OSWindows {
		return YtDlpCommand
	}

	exe, err := os.Executable()
	if err != nil {
		return YtDlpWindowsBinary
	}
	return filepath.Join(filepath.Dir(exe), YtDlpWindowsBinary)
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// EnsureParentDirectory creates the directory that will hold filePath
func EnsureParentDirectory(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := CreateDirectoryIfNotExists(dir); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// RemoveIfExists deletes filePath, treating a missing file as success
func RemoveIfExists(filePath string) error {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", filePath, err)
	}
	return nil
}

// FileSize returns the size of filePath and whether it exists as a regular file
func FileSize(filePath string) (int64, bool) {
	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		return 0, false
	}
	return info.Size(), true
}

// ExceedsMinimumSize reports whether filePath exists and is strictly larger than minBytes
func ExceedsMinimumSize(filePath string, minBytes int64) bool {
	size, ok := FileSize(filePath)
	return ok && size > minBytes
}
