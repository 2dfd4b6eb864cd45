package model

import (
	"strings"
	"time"
)

// DownloadTask records a single download invocation
type DownloadTask struct {
	ID         string
	URL        string
	Status     TaskStatus
	Percent    float64   // 0 to 100, last reported value
	Title      string    // video title, empty until metadata arrives
	Channel    string    // uploader channel name
	Format     string    // format selector handed to the fetcher
	OutputDir  string    // directory the file is saved to
	LastError  string    // last error message if any
	StartedAt  time.Time // when the task was created
	FinishedAt time.Time // when the task reached a finished status
}

// GetDisplayTitle returns the title when known, otherwise the URL
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}
	return dt.URL
}

// Elapsed returns how long the task ran, or has been running so far
func (dt *DownloadTask) Elapsed() time.Duration {
	if dt.StartedAt.IsZero() {
		return 0
	}
	if dt.FinishedAt.IsZero() {
		return time.Since(dt.StartedAt)
	}
	return dt.FinishedAt.Sub(dt.StartedAt)
}
