package schedule

import (
	"regexp"
	"strings"
)

var placeSeparator = regexp.MustCompile(`[,\s/]+`)

// SplitPlaces splits a place string holding one or more room tokens
// ("301-118, 301-119 / 301-201") into trimmed tokens.
func SplitPlaces(p string) []string {
	parts := placeSeparator.Split(p, -1)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParsePlace decomposes a room token into (building, room) at the last
// hyphen. When the part after the last hyphen is a single character
// ("301-113-2"), the split moves to the second-to-last hyphen so the
// hyphenated room suffix stays with the room ("301", "113-2"). This is
// a heuristic matched to observed building naming schemes.
func ParsePlace(place string) (string, string, bool) {
	lastDash := strings.LastIndex(place, "-")
	if lastDash < 0 {
		return "", "", false
	}

	splitIndex := lastDash
	if len(place)-lastDash-1 == 1 {
		if secondLast := strings.LastIndex(place[:lastDash], "-"); secondLast >= 0 {
			splitIndex = secondLast
		}
	}

	building := place[:splitIndex]
	room := place[splitIndex+1:]
	if building == "" || room == "" {
		return "", "", false
	}
	return building, room, true
}

// RoomLabel extracts the display label for a room token, degrading to
// the substring after the last hyphen (or the whole token) when the
// token does not decompose.
func RoomLabel(place string) string {
	if _, room, ok := ParsePlace(place); ok {
		return room
	}
	if idx := strings.LastIndex(place, "-"); idx >= 0 {
		return place[idx+1:]
	}
	return place
}
