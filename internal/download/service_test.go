package download

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/viper"

	"github.com/ytget/yt1080/internal/config"
	"github.com/ytget/yt1080/internal/logger"
	"github.com/ytget/yt1080/internal/model"
	"github.com/ytget/yt1080/internal/progress"
	"github.com/ytget/yt1080/internal/ui"
)

// fakeFetcher records calls and replays canned results
type fakeFetcher struct {
	meta        *model.VideoMetadata
	metaErr     error
	transferErr error
	samples     []model.ProgressSample
	panicOn     string

	metadataCalls int
	transferCalls int
	gotURL        string
	gotOpts       model.TransferOptions
	dirExisted    bool
}

func (f *fakeFetcher) Metadata(ctx context.Context, url string) (*model.VideoMetadata, error) {
	f.metadataCalls++
	f.gotURL = url
	if f.panicOn == "metadata" {
		panic("boom")
	}
	if f.metaErr != nil {
		return nil, f.metaErr
	}
	return f.meta, nil
}

func (f *fakeFetcher) Transfer(ctx context.Context, url string, opts model.TransferOptions, progress model.ProgressFunc) error {
	f.transferCalls++
	f.gotOpts = opts
	if opts.OutputDir != "" {
		info, err := os.Stat(opts.OutputDir)
		f.dirExisted = err == nil && info.IsDir()
	}
	for _, sample := range f.samples {
		progress(sample)
	}
	return f.transferErr
}

// recordingReporter keeps samples and counts Finish calls
type recordingReporter struct {
	samples  []model.ProgressSample
	finished int
}

func (r *recordingReporter) Report(sample model.ProgressSample) { r.samples = append(r.samples, sample) }
func (r *recordingReporter) Finish()                            { r.finished++ }

func newTestService(f Fetcher, reporter progress.Reporter) (*Service, *bytes.Buffer) {
	color.NoColor = true
	var out bytes.Buffer
	console := ui.NewConsole(strings.NewReader(""), &out)
	settings := config.NewSettings(viper.New())
	service := NewService(f, reporter, console, settings, nil)
	service.getwd = func() (string, error) { return "/current/dir", nil }
	return service, &out
}

func sampleMeta(heights ...int) *model.VideoMetadata {
	return &model.VideoMetadata{Title: "Test Video", Channel: "Test Channel", Heights: heights}
}

func TestNewService(t *testing.T) {
	service, _ := newTestService(&fakeFetcher{}, &recordingReporter{})

	if service.logger == nil {
		t.Error("Expected a no-op logger when nil is passed")
	}
	if service.settings == nil || service.console == nil {
		t.Error("Expected settings and console to be set")
	}
}

func TestRun_CreatesMissingDirectoryBeforeTransfer(t *testing.T) {
	fetcher := &fakeFetcher{meta: sampleMeta(720, 1080)}
	service, out := newTestService(fetcher, &recordingReporter{})

	outputDir := filepath.Join(t.TempDir(), "a", "b", "videos")
	task := service.Run(context.Background(), model.DownloadRequest{URL: "https://youtu.be/abc", OutputDir: outputDir})

	if task.Status != model.TaskStatusCompleted {
		t.Fatalf("Expected status Completed, got %s (%s)", task.Status, task.LastError)
	}
	if !fetcher.dirExisted {
		t.Error("Expected output directory to exist when transfer started")
	}

	expectedTemplate := filepath.Join(outputDir, config.DefaultFilenameTemplate)
	if fetcher.gotOpts.OutputTemplate != expectedTemplate {
		t.Errorf("Expected template %s, got %s", expectedTemplate, fetcher.gotOpts.OutputTemplate)
	}
	if !strings.Contains(out.String(), "Saved to: "+outputDir+"\n") {
		t.Errorf("Expected save location %s in output, got %q", outputDir, out.String())
	}
}

func TestRun_NoDirectoryUsesWorkingDirectory(t *testing.T) {
	fetcher := &fakeFetcher{meta: sampleMeta(1080)}
	service, out := newTestService(fetcher, &recordingReporter{})

	task := service.Run(context.Background(), model.DownloadRequest{URL: "https://youtu.be/abc"})

	if task.Status != model.TaskStatusCompleted {
		t.Fatalf("Expected status Completed, got %s", task.Status)
	}
	if fetcher.gotOpts.OutputTemplate != config.DefaultFilenameTemplate {
		t.Errorf("Expected bare template, got %s", fetcher.gotOpts.OutputTemplate)
	}
	if fetcher.gotOpts.OutputDir != "" {
		t.Errorf("Expected empty output dir, got %s", fetcher.gotOpts.OutputDir)
	}
	if !strings.Contains(out.String(), "Saved to: /current/dir\n") {
		t.Errorf("Expected working directory as save location, got %q", out.String())
	}
}

func TestRun_TransferOptions(t *testing.T) {
	fetcher := &fakeFetcher{meta: sampleMeta(1080)}
	service, _ := newTestService(fetcher, &recordingReporter{})

	service.Run(context.Background(), model.DownloadRequest{URL: "https://youtu.be/abc"})

	expectedFormat := "bestvideo[height=1080][ext=mp4]+bestaudio[ext=m4a]/bestvideo[height=1080]+bestaudio/best[height=1080]/best"
	if fetcher.gotOpts.Format != expectedFormat {
		t.Errorf("Expected format %s, got %s", expectedFormat, fetcher.gotOpts.Format)
	}
	if fetcher.gotOpts.MergeOutputFormat != "mp4" {
		t.Errorf("Expected merge format mp4, got %s", fetcher.gotOpts.MergeOutputFormat)
	}
	if fetcher.gotOpts.TargetHeight != 1080 {
		t.Errorf("Expected target height 1080, got %d", fetcher.gotOpts.TargetHeight)
	}
	if fetcher.metadataCalls != 1 || fetcher.transferCalls != 1 {
		t.Errorf("Expected one metadata and one transfer call, got %d and %d", fetcher.metadataCalls, fetcher.transferCalls)
	}
}

func TestRun_SuccessOutput(t *testing.T) {
	fetcher := &fakeFetcher{meta: sampleMeta(360, 1080, 720)}
	service, out := newTestService(fetcher, &recordingReporter{})

	service.Run(context.Background(), model.DownloadRequest{URL: "https://youtu.be/abc"})

	expected := "Fetching video information...\n" +
		"\nDownloading: Test Video\n" +
		"Channel: Test Channel\n" +
		"1080p quality available - downloading at 1080p\n" +
		"\nDownload completed successfully!\n" +
		"Saved to: /current/dir\n"
	if out.String() != expected {
		t.Errorf("Unexpected output.\nExpected: %q\nGot:      %q", expected, out.String())
	}
}

func TestRun_UnavailableHeightStillDownloads(t *testing.T) {
	fetcher := &fakeFetcher{meta: sampleMeta(720, 360, 720, 144)}
	service, out := newTestService(fetcher, &recordingReporter{})

	task := service.Run(context.Background(), model.DownloadRequest{URL: "https://youtu.be/abc"})

	if !strings.Contains(out.String(), "1080p not available. Available qualities: [144, 360, 720]px\n") {
		t.Errorf("Expected unavailable message with sorted heights, got %q", out.String())
	}
	if fetcher.transferCalls != 1 {
		t.Error("Expected transfer to proceed when 1080p is unavailable")
	}
	if task.Status != model.TaskStatusCompleted {
		t.Errorf("Expected status Completed, got %s", task.Status)
	}
}

func TestRun_ProgressForwarded(t *testing.T) {
	samples := []model.ProgressSample{
		{Status: model.ProgressStatusDownloading, DownloadedBytes: 50 * model.BytesPerMB, TotalBytes: 100 * model.BytesPerMB},
		{Status: model.ProgressStatusDownloading, DownloadedBytes: 10},
		{Status: model.ProgressStatusFinished},
	}
	fetcher := &fakeFetcher{meta: sampleMeta(1080), samples: samples}
	reporter := &recordingReporter{}
	service, _ := newTestService(fetcher, reporter)

	var percents []float64
	service.SetUpdateCallback(func(task *model.DownloadTask) {
		if task.Status == model.TaskStatusDownloading {
			percents = append(percents, task.Percent)
		}
	})

	task := service.Run(context.Background(), model.DownloadRequest{URL: "https://youtu.be/abc"})

	if len(reporter.samples) != len(samples) {
		t.Errorf("Expected %d samples forwarded, got %d", len(samples), len(reporter.samples))
	}
	if reporter.finished != 1 {
		t.Errorf("Expected reporter to be finished once, got %d", reporter.finished)
	}
	if task.Percent != 100 {
		t.Errorf("Expected completed task at 100%%, got %f", task.Percent)
	}
	if len(percents) != 1 || percents[0] != 0 {
		t.Errorf("Expected one Downloading notification at 0%%, got %v", percents)
	}
}

func TestRun_ProgressLineRendered(t *testing.T) {
	samples := []model.ProgressSample{
		{Status: model.ProgressStatusDownloading, DownloadedBytes: 50 * model.BytesPerMB, TotalBytes: 100 * model.BytesPerMB},
	}
	fetcher := &fakeFetcher{meta: sampleMeta(1080), samples: samples}

	color.NoColor = true
	var out bytes.Buffer
	console := ui.NewConsole(strings.NewReader(""), &out)
	service := NewService(fetcher, progress.NewLineReporter(&out), console, config.NewSettings(viper.New()), nil)
	service.getwd = func() (string, error) { return "/current/dir", nil }

	service.Run(context.Background(), model.DownloadRequest{URL: "https://youtu.be/abc"})

	if !strings.Contains(out.String(), "\rProgress: 50.0% (50.0MB / 100.0MB)\nDownload completed successfully!") {
		t.Errorf("Expected progress line followed by completion, got %q", out.String())
	}
}

func TestRun_TransferErrorPrintsTips(t *testing.T) {
	fetcher := &fakeFetcher{meta: sampleMeta(1080), transferErr: errors.New("ERROR: Requested format is not available")}
	reporter := &recordingReporter{}
	service, out := newTestService(fetcher, reporter)

	task := service.Run(context.Background(), model.DownloadRequest{URL: "https://youtu.be/abc"})

	if task.Status != model.TaskStatusError {
		t.Errorf("Expected status Error, got %s", task.Status)
	}
	if !strings.Contains(task.LastError, "Requested format is not available") {
		t.Errorf("Expected last error to carry the fetcher message, got %s", task.LastError)
	}

	output := out.String()
	if !strings.Contains(output, "An error occurred: download failed: ERROR: Requested format is not available\n") {
		t.Errorf("Expected error message in output, got %q", output)
	}
	if !strings.Contains(output, "\nTroubleshooting tips:\n") {
		t.Errorf("Expected troubleshooting header, got %q", output)
	}
	for _, tip := range ui.TroubleshootingTips {
		if !strings.Contains(output, tip) {
			t.Errorf("Expected tip %q in output", tip)
		}
	}
	if strings.Contains(output, "Download completed successfully!") {
		t.Error("Did not expect success message after failure")
	}
	if reporter.finished != 1 {
		t.Errorf("Expected reporter to be finished after a failed transfer, got %d", reporter.finished)
	}
}

func TestRun_TransferErrorWithBarReporter(t *testing.T) {
	fetcher := &fakeFetcher{
		meta: sampleMeta(1080),
		samples: []model.ProgressSample{
			{Status: model.ProgressStatusDownloading, DownloadedBytes: 40, TotalBytes: 100},
		},
		transferErr: errors.New("HTTP Error 403: Forbidden"),
	}
	var bars bytes.Buffer
	service, out := newTestService(fetcher, progress.NewBarReporter(&bars))

	done := make(chan *model.DownloadTask)
	go func() {
		done <- service.Run(context.Background(), model.DownloadRequest{URL: "https://youtu.be/abc"})
	}()

	var task *model.DownloadTask
	select {
	case task = <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Expected Run to return after a failed transfer with a partial bar")
	}

	if task.Status != model.TaskStatusError {
		t.Errorf("Expected status Error, got %s", task.Status)
	}
	if !strings.Contains(out.String(), "\nTroubleshooting tips:\n") {
		t.Errorf("Expected troubleshooting tips, got %q", out.String())
	}
}

func TestRun_FailureKeepsDefaultLogQuiet(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "yt1080.log")
	log, err := logger.New(config.DefaultLogLevel, config.DefaultLogFormat, logPath)
	if err != nil {
		t.Fatalf("Failed to build logger: %v", err)
	}

	fetcher := &fakeFetcher{metaErr: errors.New("unable to download webpage")}
	service, out := newTestService(fetcher, &recordingReporter{})
	service.logger = log

	service.Run(context.Background(), model.DownloadRequest{URL: "https://youtu.be/abc"})
	_ = log.Sync()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("Expected no log output at the default level, got: %s", data)
	}
	if !strings.Contains(out.String(), "An error occurred: ") {
		t.Errorf("Expected the failure on the console, got %q", out.String())
	}
}

func TestRun_MetadataErrorSkipsTransfer(t *testing.T) {
	fetcher := &fakeFetcher{metaErr: errors.New("unable to download webpage")}
	service, out := newTestService(fetcher, &recordingReporter{})

	task := service.Run(context.Background(), model.DownloadRequest{URL: "https://youtu.be/abc"})

	if task.Status != model.TaskStatusError {
		t.Errorf("Expected status Error, got %s", task.Status)
	}
	if fetcher.transferCalls != 0 {
		t.Error("Expected no transfer after metadata failure")
	}
	if !strings.Contains(out.String(), "An error occurred: failed to fetch video information: unable to download webpage") {
		t.Errorf("Expected metadata error in output, got %q", out.String())
	}
}

func TestRun_DirectoryErrorIsReported(t *testing.T) {
	fetcher := &fakeFetcher{meta: sampleMeta(1080)}
	service, out := newTestService(fetcher, &recordingReporter{})

	filePath := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(filePath, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	task := service.Run(context.Background(), model.DownloadRequest{URL: "https://youtu.be/abc", OutputDir: filePath})

	if task.Status != model.TaskStatusError {
		t.Errorf("Expected status Error, got %s", task.Status)
	}
	if fetcher.metadataCalls != 0 {
		t.Error("Expected no fetcher calls when the directory cannot be prepared")
	}
	if !strings.Contains(out.String(), "Troubleshooting tips:") {
		t.Errorf("Expected troubleshooting tips, got %q", out.String())
	}
}

func TestRun_PanicIsRecovered(t *testing.T) {
	fetcher := &fakeFetcher{panicOn: "metadata"}
	service, out := newTestService(fetcher, &recordingReporter{})

	task := service.Run(context.Background(), model.DownloadRequest{URL: "https://youtu.be/abc"})

	if task == nil || task.Status != model.TaskStatusError {
		t.Fatalf("Expected task in Error status after panic, got %+v", task)
	}
	if !strings.Contains(out.String(), "An error occurred: unexpected failure: boom") {
		t.Errorf("Expected panic to be reported, got %q", out.String())
	}
}

func TestUpdateCallback(t *testing.T) {
	fetcher := &fakeFetcher{meta: sampleMeta(1080)}
	service, _ := newTestService(fetcher, &recordingReporter{})

	var statuses []model.TaskStatus
	service.SetUpdateCallback(func(task *model.DownloadTask) {
		statuses = append(statuses, task.Status)
	})

	service.Run(context.Background(), model.DownloadRequest{URL: "https://youtu.be/abc"})

	expected := []model.TaskStatus{
		model.TaskStatusPending,
		model.TaskStatusStarting,
		model.TaskStatusDownloading,
		model.TaskStatusCompleted,
	}
	if len(statuses) != len(expected) {
		t.Fatalf("Expected statuses %v, got %v", expected, statuses)
	}
	for i := range expected {
		if statuses[i] != expected[i] {
			t.Errorf("Status %d: expected %s, got %s", i, expected[i], statuses[i])
		}
	}
}

func TestGenerateTaskID(t *testing.T) {
	id1 := generateTaskID()
	id2 := generateTaskID()

	if id1 == id2 {
		t.Error("Expected different task IDs")
	}

	// Check prefix
	if !strings.HasPrefix(id1, TaskIDPrefix) {
		t.Errorf("Expected ID to start with 'task-', got: %s", id1)
	}

	// Check UUID format (task- + 36 chars for UUID)
	if len(id1) != len(TaskIDPrefix)+36 {
		t.Errorf("Expected ID length %d, got %d for ID: %s", len(TaskIDPrefix)+36, len(id1), id1)
	}
}
