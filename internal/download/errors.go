package download

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"strings"
)

// ErrorCategory is a coarse classification of a failed download. It only
// feeds the logs; the console output is the same for every category.
type ErrorCategory string

const (
	CategoryNetwork           ErrorCategory = "network"
	CategoryFormatUnavailable ErrorCategory = "format_unavailable"
	CategoryPermission        ErrorCategory = "permission"
	CategoryCanceled          ErrorCategory = "canceled"
	CategoryUnknown           ErrorCategory = "unknown"
)

var (
	formatMarkers = []string{
		"requested format is not available",
		"no suitable format",
		"no video formats found",
	}
	permissionMarkers = []string{
		"permission denied",
		"read-only file system",
		"access is denied",
	}
	networkMarkers = []string{
		"unable to download webpage",
		"connection refused",
		"connection reset",
		"no such host",
		"network is unreachable",
		"timed out",
		"http error",
		"temporary failure in name resolution",
	}
)

// Classify maps err onto an ErrorCategory
func Classify(err error) ErrorCategory {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return CategoryCanceled
	}
	if errors.Is(err, fs.ErrPermission) {
		return CategoryPermission
	}

	msg := strings.ToLower(err.Error())
	if containsAny(msg, formatMarkers) {
		return CategoryFormatUnavailable
	}
	if containsAny(msg, permissionMarkers) {
		return CategoryPermission
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return CategoryNetwork
	}
	if containsAny(msg, networkMarkers) {
		return CategoryNetwork
	}
	return CategoryUnknown
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
