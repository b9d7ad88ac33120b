package model

// DownloadResult is the single object written to stdout by the download command
type DownloadResult struct {
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	Resolution string `json:"resolution,omitempty"`
	OutputPath string `json:"output_path,omitempty"`
}

// NewSuccessResult builds the result of a run that left a valid file
func NewSuccessResult(resolution, outputPath string) DownloadResult {
	return DownloadResult{
		Success:    true,
		Resolution: resolution,
		OutputPath: outputPath,
	}
}

// NewFailureResult builds the result of a failed run
func NewFailureResult(message string) DownloadResult {
	return DownloadResult{
		Success: false,
		Error:   message,
	}
}
