package model

import "strings"

// DownloadRequest is the user input for one invocation
type DownloadRequest struct {
	URL       string
	OutputDir string // empty means the current working directory
}

// NewDownloadRequest trims surrounding whitespace from both fields
func NewDownloadRequest(url, outputDir string) DownloadRequest {
	return DownloadRequest{
		URL:       strings.TrimSpace(url),
		OutputDir: strings.TrimSpace(outputDir),
	}
}

// HasOutputDir reports whether a destination directory was supplied
func (r DownloadRequest) HasOutputDir() bool {
	return r.OutputDir != ""
}

// TransferOptions configures a single transfer call on a media fetcher
type TransferOptions struct {
	Format            string // fallback chain, e.g. "bestvideo[height=1080]+bestaudio/best"
	OutputTemplate    string // path template with %(title)s and %(ext)s placeholders
	OutputDir         string // directory part of OutputTemplate, empty for cwd
	MergeOutputFormat string // container used when audio and video are muxed
	TargetHeight      int    // preferred height, for fetchers without selector syntax
	Proxy             string
	RestrictFilenames bool
}
