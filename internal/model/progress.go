package model

// ProgressStatus mirrors the status string reported by the fetcher
type ProgressStatus string

const (
	ProgressStatusStarting       ProgressStatus = "starting"
	ProgressStatusDownloading    ProgressStatus = "downloading"
	ProgressStatusPostProcessing ProgressStatus = "post_processing"
	ProgressStatusFinished       ProgressStatus = "finished"
	ProgressStatusError          ProgressStatus = "error"
)

// BytesPerMB is the divisor used for megabyte figures on the console
const BytesPerMB = 1024 * 1024

// ProgressSample is a single progress update delivered during a transfer
type ProgressSample struct {
	Status          ProgressStatus
	DownloadedBytes int64
	TotalBytes      int64 // 0 when the fetcher does not know the size
	Filename        string
}

// ProgressFunc receives progress samples from a fetcher
type ProgressFunc func(ProgressSample)

// HasTotal reports whether the total size is known
func (p ProgressSample) HasTotal() bool {
	return p.TotalBytes > 0
}

// Percent returns downloaded/total*100, or 0 when the total is unknown
func (p ProgressSample) Percent() float64 {
	if !p.HasTotal() {
		return 0
	}
	return float64(p.DownloadedBytes) / float64(p.TotalBytes) * 100
}

// DownloadedMB returns downloaded bytes in megabytes
func (p ProgressSample) DownloadedMB() float64 {
	return float64(p.DownloadedBytes) / BytesPerMB
}

// TotalMB returns total bytes in megabytes
func (p ProgressSample) TotalMB() float64 {
	return float64(p.TotalBytes) / BytesPerMB
}
