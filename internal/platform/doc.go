package platform

// Package platform contains OS integration: destination directory creation,
// output template construction and save location resolution.
