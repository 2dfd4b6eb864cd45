package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/ytget/yt1080/internal/config"
	"github.com/ytget/yt1080/internal/download"
	"github.com/ytget/yt1080/internal/fetcher"
	"github.com/ytget/yt1080/internal/logger"
	"github.com/ytget/yt1080/internal/model"
	"github.com/ytget/yt1080/internal/platform"
	"github.com/ytget/yt1080/internal/progress"
	"github.com/ytget/yt1080/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	// Configuration problems fall back to defaults
	settings, cfgErr := config.Load()

	log, err := logger.New(settings.GetLogLevel(), settings.GetLogFormat(), settings.GetLogFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		log = zap.NewNop()
	}
	defer func() { _ = log.Sync() }()

	if cfgErr != nil {
		log.Warn("using default settings", zap.Error(cfgErr))
	}
	log.Debug("yt1080 starting",
		zap.String("version", version),
		zap.String("config", settings.ConfigFileUsed()),
		zap.String("backend", string(settings.GetBackend())),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	console := ui.NewConsole(os.Stdin, color.Output)

	url, err := console.Prompt(ui.PromptURL)
	if err != nil {
		log.Debug("no URL entered", zap.Error(err))
		return
	}
	outputDir, err := console.Prompt(ui.PromptOutputDir)
	if err != nil {
		log.Debug("no output directory entered", zap.Error(err))
	}

	req := model.NewDownloadRequest(url, outputDir)
	if !req.HasOutputDir() {
		req.OutputDir = settings.GetDownloadDirectory()
	}
	req.OutputDir = platform.ExpandHome(req.OutputDir)

	service := download.NewService(
		newFetcher(ctx, settings, log),
		newReporter(settings.GetProgressStyle(), console.Out()),
		console,
		settings,
		log,
	)
	service.SetUpdateCallback(func(task *model.DownloadTask) {
		log.Debug("task updated",
			zap.String("task_id", task.ID),
			zap.String("status", task.Status.String()),
			zap.String("title", task.GetDisplayTitle()),
		)
	})

	// Failures are printed by the service; the exit code stays 0
	service.Run(ctx, req)
}

// newFetcher builds the configured media fetcher
func newFetcher(ctx context.Context, settings *config.Settings, log *zap.Logger) download.Fetcher {
	if settings.GetBackend() == config.BackendNative {
		return fetcher.NewNative(log)
	}

	y := fetcher.NewYTDLP(settings.GetProxy(), log)
	if settings.GetAutoInstall() {
		if err := y.Install(ctx); err != nil {
			log.Warn("yt-dlp install failed, using the one on PATH", zap.Error(err))
		}
	}
	return y
}

// newReporter builds the configured progress renderer
func newReporter(style config.ProgressStyle, out io.Writer) progress.Reporter {
	if style == config.ProgressBar {
		return progress.NewBarReporter(out)
	}
	return progress.NewLineReporter(out)
}
