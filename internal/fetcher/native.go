package fetcher

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	ytget "github.com/ytget/ytdlp/v2"
	"go.uber.org/zap"

	"github.com/ytget/yt1080/internal/model"
)

var qualityHeightRe = regexp.MustCompile(`([0-9]{3,4})p`)

// Native fetches media with the pure-Go extractor. It selects a single
// progressive stream and never muxes, so the container preference is only a
// filter.
type Native struct {
	logger *zap.Logger
}

// NewNative creates a fetcher backed by github.com/ytget/ytdlp
func NewNative(logger *zap.Logger) *Native {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Native{logger: logger}
}

// Metadata resolves the video and reports the heights of its formats.
// ResolveURL leaves VideoInfo.Author empty, so the channel prints as Unknown.
func (n *Native) Metadata(ctx context.Context, url string) (*model.VideoMetadata, error) {
	_, info, err := ytget.New().WithFormat(model.SelectorBest, "").ResolveURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve video: %w", err)
	}
	if info == nil {
		return nil, ErrNoVideoInfo
	}

	meta := &model.VideoMetadata{
		ID:      info.ID,
		Title:   info.Title,
		Channel: info.Author,
	}
	for _, f := range info.Formats {
		if h := parseQualityHeight(f.Quality); h > 0 {
			meta.Heights = append(meta.Heights, h)
		}
	}

	n.logger.Debug("metadata resolved",
		zap.String("url", url),
		zap.String("id", meta.ID),
		zap.Ints("heights", meta.AvailableHeights()),
	)
	return meta, nil
}

// Transfer downloads the best stream not taller than the target height
func (n *Native) Transfer(ctx context.Context, url string, opts model.TransferOptions, progress model.ProgressFunc) error {
	height := opts.TargetHeight
	if height <= 0 {
		height = model.DefaultTargetHeight
	}

	d := ytget.New().WithFormat(fmt.Sprintf("height<=%d", height), opts.MergeOutputFormat)
	if opts.OutputDir != "" {
		d = d.WithOutputPath(opts.OutputDir)
	}
	if progress != nil {
		d = d.WithProgress(func(p ytget.Progress) {
			progress(model.ProgressSample{
				Status:          model.ProgressStatusDownloading,
				DownloadedBytes: p.DownloadedSize,
				TotalBytes:      p.TotalSize,
			})
		})
	}

	info, err := d.Download(ctx, url)
	if err != nil {
		return err
	}
	if progress != nil {
		progress(model.ProgressSample{Status: model.ProgressStatusFinished})
	}
	if info != nil {
		n.logger.Debug("native download finished", zap.String("title", info.Title))
	}
	return nil
}

// parseQualityHeight extracts 1080 from labels such as "1080p" or "1080p60"
func parseQualityHeight(label string) int {
	m := qualityHeightRe.FindStringSubmatch(label)
	if len(m) < 2 {
		return 0
	}
	h, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return h
}
