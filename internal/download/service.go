package download

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ytget/yt1080/internal/config"
	"github.com/ytget/yt1080/internal/model"
	"github.com/ytget/yt1080/internal/platform"
	"github.com/ytget/yt1080/internal/progress"
	"github.com/ytget/yt1080/internal/ui"
)

// TaskIDPrefix prefixes every generated task ID
const TaskIDPrefix = "task-"

var _ Downloader = (*Service)(nil)

// Service handles download operations
type Service struct {
	fetcher  Fetcher
	reporter progress.Reporter
	console  *ui.Console
	settings *config.Settings
	logger   *zap.Logger

	getwd     func() (string, error)
	taskMutex sync.Mutex
	onUpdate  func(*model.DownloadTask) // callback for status changes
}

// NewService creates a new download service
func NewService(fetcher Fetcher, reporter progress.Reporter, console *ui.Console, settings *config.Settings, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetcher:  fetcher,
		reporter: reporter,
		console:  console,
		settings: settings,
		logger:   logger,
		getwd:    os.Getwd,
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.onUpdate = callback
}

// Run downloads req.URL. Any failure, including a panic inside the fetcher,
// is printed with troubleshooting tips and recorded on the returned task.
func (s *Service) Run(ctx context.Context, req model.DownloadRequest) (task *model.DownloadTask) {
	task = &model.DownloadTask{
		ID:        generateTaskID(),
		URL:       req.URL,
		Status:    model.TaskStatusPending,
		OutputDir: req.OutputDir,
		StartedAt: time.Now(),
	}
	s.notifyUpdate(task)

	log := s.logger.With(zap.String("task_id", task.ID), zap.String("url", req.URL))

	defer func() {
		if r := recover(); r != nil {
			s.fail(log, task, fmt.Errorf("unexpected failure: %v", r))
		}
	}()

	if err := s.download(ctx, log, task, req); err != nil {
		s.fail(log, task, err)
		return task
	}

	s.setStatus(task, model.TaskStatusCompleted)
	log.Info("download completed", zap.Duration("elapsed", task.Elapsed()))
	return task
}

// download runs the whole sequence and returns the first error
func (s *Service) download(ctx context.Context, log *zap.Logger, task *model.DownloadTask, req model.DownloadRequest) error {
	outputDir := req.OutputDir
	if outputDir != "" {
		if err := platform.CreateDirectoryIfNotExists(outputDir); err != nil {
			return err
		}
	}

	pref := s.settings.FormatPreference()
	opts := model.TransferOptions{
		Format:            pref.String(),
		OutputTemplate:    platform.OutputTemplate(outputDir, s.settings.GetFilenameTemplate()),
		OutputDir:         outputDir,
		MergeOutputFormat: s.settings.GetContainer(),
		TargetHeight:      pref.Height,
		Proxy:             s.settings.GetProxy(),
		RestrictFilenames: s.settings.GetRestrictFilenames(),
	}
	task.Format = opts.Format
	log.Debug("transfer options prepared",
		zap.String("format", opts.Format),
		zap.String("template", opts.OutputTemplate),
	)

	s.setStatus(task, model.TaskStatusStarting)
	s.console.Fetching()

	meta, err := s.fetcher.Metadata(ctx, req.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch video information: %w", err)
	}

	s.taskMutex.Lock()
	task.Title = meta.Title
	task.Channel = meta.ChannelOrUnknown()
	s.taskMutex.Unlock()

	s.console.VideoInfo(meta)
	available := s.console.Availability(pref, meta)
	log.Debug("metadata received",
		zap.String("title", meta.Title),
		zap.Ints("heights", meta.AvailableHeights()),
		zap.Bool("target_available", available),
	)

	s.setStatus(task, model.TaskStatusDownloading)
	err = s.fetcher.Transfer(ctx, req.URL, opts, func(sample model.ProgressSample) {
		s.updateTaskProgress(task, sample)
	})
	s.reporter.Finish()
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	location, err := platform.SaveLocation(outputDir, s.getwd)
	if err != nil {
		return err
	}
	s.console.Completed(location)
	return nil
}

// fail records err on the task and prints it. The console already reports
// the failure, so the log entry stays at info.
func (s *Service) fail(log *zap.Logger, task *model.DownloadTask, err error) {
	s.taskMutex.Lock()
	task.LastError = err.Error()
	s.taskMutex.Unlock()

	s.setStatus(task, model.TaskStatusError)
	log.Info("download failed",
		zap.String("category", string(Classify(err))),
		zap.Error(err),
	)
	s.console.Failed(err)
}

// updateTaskProgress records the sample on the task and forwards it to the reporter
func (s *Service) updateTaskProgress(task *model.DownloadTask, sample model.ProgressSample) {
	if sample.Status == model.ProgressStatusDownloading && sample.HasTotal() {
		s.taskMutex.Lock()
		task.Percent = sample.Percent()
		s.taskMutex.Unlock()
	}
	s.reporter.Report(sample)
}

// setStatus moves the task to status and notifies the callback
func (s *Service) setStatus(task *model.DownloadTask, status model.TaskStatus) {
	s.taskMutex.Lock()
	task.Status = status
	if status.IsFinished() {
		task.FinishedAt = time.Now()
	}
	if status == model.TaskStatusCompleted {
		task.Percent = 100
	}
	s.taskMutex.Unlock()

	s.notifyUpdate(task)
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.DownloadTask) {
	if s.onUpdate != nil {
		s.onUpdate(task)
	}
}

// generateTaskID generates a unique task ID
func generateTaskID() string {
	return TaskIDPrefix + uuid.NewString()
}
