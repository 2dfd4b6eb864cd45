package model

import (
	"fmt"
	"strings"
)

// Format selector defaults
const (
	DefaultTargetHeight = 1080
	DefaultContainer    = "mp4"
	DefaultAudioExt     = "m4a"
	SelectorSeparator   = "/"
	SelectorBest        = "best"
)

// FormatPreference is an ordered list of format selectors; the fetcher picks
// the first one it can satisfy.
type FormatPreference struct {
	Height    int
	Container string
	Selectors []string
}

// NewFormatPreference builds the fallback chain for the given height and
// container, ending with "best".
func NewFormatPreference(height int, container string) FormatPreference {
	if height <= 0 {
		height = DefaultTargetHeight
	}
	container = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(container)), ".")
	if container == "" {
		container = DefaultContainer
	}

	audioExt := audioExtFor(container)
	selectors := make([]string, 0, 4)
	if audioExt != "" {
		selectors = append(selectors, fmt.Sprintf("bestvideo[height=%d][ext=%s]+bestaudio[ext=%s]", height, container, audioExt))
	} else {
		selectors = append(selectors, fmt.Sprintf("bestvideo[height=%d][ext=%s]+bestaudio", height, container))
	}
	selectors = append(selectors,
		fmt.Sprintf("bestvideo[height=%d]+bestaudio", height),
		fmt.Sprintf("best[height=%d]", height),
		SelectorBest,
	)

	return FormatPreference{Height: height, Container: container, Selectors: selectors}
}

// OverrideFormatPreference wraps a raw selector string supplied by the user.
func OverrideFormatPreference(raw string, height int, container string) FormatPreference {
	p := NewFormatPreference(height, container)
	var selectors []string
	for _, s := range strings.Split(raw, SelectorSeparator) {
		if s = strings.TrimSpace(s); s != "" {
			selectors = append(selectors, s)
		}
	}
	if len(selectors) > 0 {
		p.Selectors = selectors
	}
	return p
}

// String joins the selectors with the fetcher's fallback separator
func (p FormatPreference) String() string {
	return strings.Join(p.Selectors, SelectorSeparator)
}

// Label returns the human form of the target height, e.g. "1080p"
func (p FormatPreference) Label() string {
	return fmt.Sprintf("%dp", p.Height)
}

// audioExtFor returns the audio extension that muxes cleanly into container
func audioExtFor(container string) string {
	switch container {
	case "mp4", "m4v", "mov":
		return DefaultAudioExt
	case "webm", "mkv":
		return "webm"
	default:
		return ""
	}
}
