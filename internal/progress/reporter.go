// Package progress renders transfer progress samples on the console.
package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/ytget/yt1080/internal/model"
)

// LineFormat is the single overwritten progress line
const LineFormat = "\rProgress: %.1f%% (%.1fMB / %.1fMB)"

// Reporter consumes progress samples delivered by a fetcher
type Reporter interface {
	Report(sample model.ProgressSample)
	Finish()
}

// LineReporter overwrites one console line with percentage and sizes
type LineReporter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewLineReporter creates a reporter writing to out
func NewLineReporter(out io.Writer) *LineReporter {
	return &LineReporter{out: out}
}

// Report prints the sample if it is a downloading sample with a known total.
// Anything else is ignored.
func (r *LineReporter) Report(sample model.ProgressSample) {
	if sample.Status != model.ProgressStatusDownloading || !sample.HasTotal() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.out, LineFormat, sample.Percent(), sample.DownloadedMB(), sample.TotalMB())
}

// Finish is a no-op; the next status line starts with a newline.
func (r *LineReporter) Finish() {}
