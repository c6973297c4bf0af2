package apimodel

import (
	"path"
	"strings"
)

// Track is one entry of the catalog served on /api/tracks.
// File is either an absolute http(s) URL or a path relative to the catalog server.
type Track struct {
	Title      string  `json:"title"`
	File       string  `json:"file"`
	Cover      string  `json:"cover,omitempty"`
	SelectedBy string  `json:"selectedBy,omitempty"`
	Artist     string  `json:"artist,omitempty"`
	Album      string  `json:"album,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
}

// IsRemoteLocator reports whether locator has to be fetched over http.
func IsRemoteLocator(locator string) bool {
	return strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://")
}

// Normalize fills the title from the locator when missing.
// It returns false when the track has no locator and can't be played.
func (t *Track) Normalize() bool {
	t.File = strings.TrimSpace(t.File)
	if t.File == "" {
		return false
	}
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		t.Title = LocatorStem(t.File)
	}
	return true
}

// LocatorStem returns the last path segment of locator without its extension.
func LocatorStem(locator string) string {
	if i := strings.IndexAny(locator, "?#"); i >= 0 && IsRemoteLocator(locator) {
		locator = locator[:i]
	}
	base := path.Base(strings.ReplaceAll(locator, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}
