package progress

import (
	"io"
	"path/filepath"
	"sync"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/ytget/yt1080/internal/model"
)

// Bar layout
const (
	BarWidth       = 48
	DefaultBarName = "Progress"
	CountersFormat = "% .1f / % .1f"
)

// BarReporter renders samples as mpb progress bars. yt-dlp fetches video and
// audio as separate streams, so a new bar is started whenever the total
// changes.
type BarReporter struct {
	mu    sync.Mutex
	out   io.Writer
	p     *mpb.Progress
	bar   *mpb.Bar
	total int64
}

// NewBarReporter creates a bar reporter writing to out
func NewBarReporter(out io.Writer) *BarReporter {
	return &BarReporter{out: out}
}

// Report advances the current bar
func (r *BarReporter) Report(sample model.ProgressSample) {
	if sample.Status != model.ProgressStatusDownloading || !sample.HasTotal() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.p == nil {
		r.p = mpb.New(mpb.WithOutput(r.out), mpb.WithWidth(BarWidth))
	}
	if r.bar == nil || sample.TotalBytes != r.total {
		r.completeBar()
		r.bar = r.p.AddBar(sample.TotalBytes,
			mpb.PrependDecorators(
				decor.Name(barName(sample.Filename), decor.WCSyncSpaceR),
				decor.Percentage(decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.CountersKibiByte(CountersFormat),
			),
		)
		r.total = sample.TotalBytes
	}
	r.bar.SetCurrent(sample.DownloadedBytes)
}

// Finish stops the last bar and waits for rendering to stop
func (r *BarReporter) Finish() {
	r.mu.Lock()
	r.completeBar()
	p := r.p
	r.p = nil
	r.mu.Unlock()

	if p != nil {
		p.Wait()
	}
}

// completeBar stops the current bar. A bar that never reached its total
// (failed, interrupted or superseded stream) is aborted in place, otherwise
// Wait would block on it forever.
func (r *BarReporter) completeBar() {
	if r.bar != nil {
		r.bar.Abort(false)
		r.bar = nil
	}
}

func barName(filename string) string {
	if filename == "" {
		return DefaultBarName
	}
	return filepath.Base(filename)
}
