package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"github.com/ytget/yt1080/internal/model"
)

// DefaultProgressInterval is how often yt-dlp progress is forwarded
const DefaultProgressInterval = 250 * time.Millisecond

// ErrNoVideoInfo is returned when yt-dlp prints no metadata for a URL
var ErrNoVideoInfo = errors.New("no video information returned")

// YTDLP fetches media by driving the yt-dlp executable
type YTDLP struct {
	proxy            string
	progressInterval time.Duration
	logger           *zap.Logger
}

// NewYTDLP creates a yt-dlp backed fetcher
func NewYTDLP(proxy string, logger *zap.Logger) *YTDLP {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YTDLP{
		proxy:            proxy,
		progressInterval: DefaultProgressInterval,
		logger:           logger,
	}
}

// Install makes sure a usable yt-dlp executable is present, downloading the
// latest release when needed.
func (y *YTDLP) Install(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	y.logger.Debug("yt-dlp ready")
	return nil
}

// Metadata returns title, channel and available heights without downloading
func (y *YTDLP) Metadata(ctx context.Context, url string) (*model.VideoMetadata, error) {
	result, err := y.metadataCommand().Run(ctx, url)
	if err != nil {
		return nil, withStderr(result, err)
	}

	infos, err := result.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to parse video information: %w", err)
	}
	if len(infos) == 0 || infos[0] == nil {
		return nil, ErrNoVideoInfo
	}

	meta := metadataFromInfo(infos[0])
	y.logger.Debug("metadata fetched",
		zap.String("url", url),
		zap.String("title", meta.Title),
		zap.Ints("heights", meta.AvailableHeights()),
	)
	return meta, nil
}

// Transfer downloads url according to opts and blocks until yt-dlp exits
func (y *YTDLP) Transfer(ctx context.Context, url string, opts model.TransferOptions, progress model.ProgressFunc) error {
	dl := y.transferCommand(opts)
	if progress != nil {
		dl.ProgressFunc(y.progressInterval, func(update ytdlp.ProgressUpdate) {
			progress(sampleFromUpdate(update))
		})
	}

	result, err := dl.Run(ctx, url)
	if err != nil {
		return withStderr(result, err)
	}
	return nil
}

// metadataCommand prints the video JSON without downloading media
func (y *YTDLP) metadataCommand() *ytdlp.Command {
	dl := ytdlp.New().
		SkipDownload().
		PrintJSON().
		NoWarnings()
	if y.proxy != "" {
		dl = dl.Proxy(y.proxy)
	}
	return dl
}

// transferCommand maps opts onto yt-dlp flags. A proxy in opts wins over the
// fetcher's own.
func (y *YTDLP) transferCommand(opts model.TransferOptions) *ytdlp.Command {
	dl := ytdlp.New().
		Format(opts.Format).
		Output(opts.OutputTemplate).
		NoWarnings()

	if opts.MergeOutputFormat != "" {
		dl = dl.MergeOutputFormat(opts.MergeOutputFormat)
	}
	if opts.RestrictFilenames {
		dl = dl.RestrictFilenames()
	}
	proxy := opts.Proxy
	if proxy == "" {
		proxy = y.proxy
	}
	if proxy != "" {
		dl = dl.Proxy(proxy)
	}
	return dl
}

// metadataFromInfo converts yt-dlp's extracted info into VideoMetadata
func metadataFromInfo(info *ytdlp.ExtractedInfo) *model.VideoMetadata {
	meta := &model.VideoMetadata{}
	if info.Title != nil {
		meta.Title = *info.Title
	}
	if info.Channel != nil {
		meta.Channel = *info.Channel
	}
	for _, f := range info.Formats {
		if f == nil || f.Height == nil {
			continue
		}
		if h := int(*f.Height); h > 0 {
			meta.Heights = append(meta.Heights, h)
		}
	}
	return meta
}

// sampleFromUpdate converts a yt-dlp progress update into a ProgressSample.
// go-ytdlp substitutes total_bytes_estimate when total_bytes is missing, so
// TotalBytes may be an estimate.
func sampleFromUpdate(update ytdlp.ProgressUpdate) model.ProgressSample {
	return model.ProgressSample{
		Status:          model.ProgressStatus(string(update.Status)),
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
		Filename:        update.Filename,
	}
}

// withStderr appends the last line yt-dlp wrote to stderr, which carries the
// actual reason ("ERROR: ... Requested format is not available").
func withStderr(result *ytdlp.Result, err error) error {
	if result == nil {
		return err
	}
	if line := lastLine(result.Stderr); line != "" && !strings.Contains(err.Error(), line) {
		return fmt.Errorf("%w: %s", err, line)
	}
	return err
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
