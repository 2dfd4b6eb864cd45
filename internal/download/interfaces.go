package download

import (
	"context"

	"github.com/ytget/yt1080/internal/model"
)

// Fetcher is the external media capability the service delegates to.
type Fetcher interface {
	// Metadata returns title, channel and heights without transferring media.
	Metadata(ctx context.Context, url string) (*model.VideoMetadata, error)

	// Transfer downloads the media and blocks until done. progress may be
	// called from another goroutine.
	Transfer(ctx context.Context, url string, opts model.TransferOptions, progress model.ProgressFunc) error
}

// Downloader defines the interface for the download service.
type Downloader interface {
	SetUpdateCallback(func(*model.DownloadTask))

	// Run performs one download. Failures are printed, never returned.
	Run(ctx context.Context, req model.DownloadRequest) *model.DownloadTask
}
