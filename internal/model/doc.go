package model

// Package model defines the data passed between the orchestrator and the
// media fetchers: download requests, format preferences, progress samples,
// video metadata and the per-run task record.
