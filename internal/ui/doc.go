package ui

// Package ui provides the console surface: interactive prompts and the
// status, result and troubleshooting lines printed around a download.
