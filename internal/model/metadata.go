package model

import "sort"

// UnknownChannel is shown when the fetcher reports no channel name
const UnknownChannel = "Unknown"

// VideoMetadata is what the fetcher returns without transferring media
type VideoMetadata struct {
	ID      string
	Title   string
	Channel string
	Heights []int // vertical resolution of every listed format, may repeat
}

// ChannelOrUnknown returns the channel name or UnknownChannel
func (m *VideoMetadata) ChannelOrUnknown() string {
	if m.Channel == "" {
		return UnknownChannel
	}
	return m.Channel
}

// AvailableHeights returns the distinct positive heights in ascending order
func (m *VideoMetadata) AvailableHeights() []int {
	seen := make(map[int]struct{}, len(m.Heights))
	heights := make([]int, 0, len(m.Heights))
	for _, h := range m.Heights {
		if h <= 0 {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		heights = append(heights, h)
	}
	sort.Ints(heights)
	return heights
}

// HasHeight reports whether any format has exactly the given height
func (m *VideoMetadata) HasHeight(height int) bool {
	for _, h := range m.Heights {
		if h == height {
			return true
		}
	}
	return false
}
