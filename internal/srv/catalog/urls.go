package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/jypelle/piradio/apimodel"
	"github.com/jypelle/piradio/internal/tool"
	"net/url"
	"os"
	"strings"
)

const rawHost = "https://raw.githubusercontent.com/"

// GitHubReleaseUrl turns a "music/<name>" locator into the download url of the release asset.
// Other locators are returned unchanged.
func GitHubReleaseUrl(locator string, repo string, tag string) string {
	name, ok := strings.CutPrefix(locator, musicRoute+"/")
	if !ok || name == "" {
		return locator
	}
	return "https://github.com/" + strings.Trim(repo, "/") + "/releases/download/" + url.PathEscape(tag) + "/" + url.PathEscape(name)
}

// RawUrl rewrites github download urls to their raw.githubusercontent.com form.
// Release assets are mapped onto rawPrefix, keeping only the file name.
func RawUrl(locator string, releasePrefix string, rawPrefix string) string {
	if rawPrefix != "" && strings.HasPrefix(locator, rawPrefix) {
		return locator
	}
	if releasePrefix != "" && rawPrefix != "" && strings.Contains(locator, releasePrefix) {
		return rawPrefix + locator[strings.LastIndex(locator, "/")+1:]
	}
	if !strings.Contains(locator, "github.com") {
		return locator
	}

	parts := strings.Split(locator, "/")
	if len(parts) < 5 {
		return locator
	}
	owner, repo := parts[3], parts[4]
	for i := 5; i < len(parts); i++ {
		switch {
		case parts[i] == "blob" && i+2 < len(parts):
			return rawHost + owner + "/" + repo + "/" + parts[i+1] + "/" + strings.Join(parts[i+2:], "/")
		case parts[i] == "raw" && i+4 < len(parts) && parts[i+1] == "refs" && parts[i+2] == "heads":
			return rawHost + owner + "/" + repo + "/" + parts[i+3] + "/" + strings.Join(parts[i+4:], "/")
		}
	}
	return locator
}

// ConvertTracks applies convert to every track file and returns the number of changed entries.
func ConvertTracks(tracks []apimodel.Track, convert func(string) string) int {
	changed := 0
	for i := range tracks {
		converted := convert(tracks[i].File)
		if converted != tracks[i].File {
			tracks[i].File = converted
			changed++
		}
	}
	return changed
}

func ReadTracksFile(filename string) ([]apimodel.Track, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var tracks []apimodel.Track
	if err = json.Unmarshal(content, &tracks); err != nil {
		return nil, fmt.Errorf("invalid tracks file %s: %w", filename, err)
	}
	return tracks, nil
}

func WriteTracksFile(filename string, tracks []apimodel.Track) error {
	if tracks == nil {
		tracks = []apimodel.Track{}
	}
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(tracks); err != nil {
		return err
	}
	return tool.WriteFileAtomic(filename, buffer.Bytes(), 0644)
}
