package catalog

import (
	"fmt"
	"github.com/jypelle/piradio/apimodel"
	"github.com/jypelle/piradio/internal/tool"
	"github.com/sirupsen/logrus"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	musicRoute = "music"
	artRoute   = "album-art"
)

// Scanner builds the catalog from the mp3 files of a folder.
type Scanner struct {
	MusicDir   string
	ArtDir     string
	PublicUrl  string
	SelectedBy string
}

type entry struct {
	track    apimodel.Track
	filename string
}

func (s *Scanner) scan() ([]entry, error) {
	files, err := os.ReadDir(s.MusicDir)
	if err != nil {
		return nil, fmt.Errorf("unable to access music folder: %w", err)
	}
	if s.ArtDir != "" {
		if err = os.MkdirAll(s.ArtDir, 0755); err != nil {
			logrus.Warnf("Unable to create album art folder: %v", err)
		}
	}

	var names []string
	for _, file := range files {
		if !file.IsDir() && strings.EqualFold(filepath.Ext(file.Name()), ".mp3") {
			names = append(names, file.Name())
		}
	}
	sort.Strings(names)

	entries := make([]entry, 0, len(names))
	for _, name := range names {
		filename := filepath.Join(s.MusicDir, name)
		entries = append(entries, entry{track: s.readTrack(filename), filename: filename})
	}
	return entries, nil
}

// Scan returns the tracks of the music folder, sorted by file name.
func (s *Scanner) Scan() ([]apimodel.Track, error) {
	entries, err := s.scan()
	if err != nil {
		return nil, err
	}
	tracks := make([]apimodel.Track, len(entries))
	for i, e := range entries {
		tracks[i] = e.track
	}
	return tracks, nil
}

func (s *Scanner) readTrack(filename string) apimodel.Track {
	name := filepath.Base(filename)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	tags := readTags(filename)

	track := apimodel.Track{
		Title:      strings.TrimSpace(tags.Title),
		File:       s.publicLocator(path.Join(musicRoute, name)),
		Artist:     tags.Artist,
		Album:      tags.Album,
		Duration:   readDuration(filename).Round(time.Second).Seconds(),
		SelectedBy: s.SelectedBy,
	}
	if track.Title == "" {
		track.Title = stem
	}

	if s.ArtDir != "" {
		artName := stem + ".jpg"
		artFilename := filepath.Join(s.ArtDir, artName)
		exists, err := tool.IsFileExists(artFilename)
		if err == nil && !exists && len(tags.Picture) > 0 {
			if err = os.WriteFile(artFilename, tags.Picture, 0644); err != nil {
				logrus.Warnf("Unable to extract album art of %s: %v", name, err)
			} else {
				exists = true
			}
		}
		if exists {
			track.Cover = s.publicLocator(path.Join(artRoute, artName))
		}
	}

	return track
}

func (s *Scanner) publicLocator(relative string) string {
	if s.PublicUrl == "" {
		return relative
	}
	return strings.TrimSuffix(s.PublicUrl, "/") + "/" + relative
}

// Catalog caches the scan result for a short time.
type Catalog struct {
	lock    sync.Mutex
	scanner *Scanner
	ttl     time.Duration
	now     func() time.Time

	entries []entry
	updated time.Time
}

func NewCatalog(scanner *Scanner, ttl time.Duration) *Catalog {
	return &Catalog{scanner: scanner, ttl: ttl, now: time.Now}
}

func (c *Catalog) refresh() ([]entry, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	now := c.now()
	if c.entries != nil && now.Sub(c.updated) <= c.ttl {
		return c.entries, nil
	}
	entries, err := c.scanner.scan()
	if err != nil {
		return nil, err
	}
	logrus.Debugf("Catalog rescanned: %d tracks", len(entries))
	c.entries = entries
	c.updated = now
	return entries, nil
}

func (c *Catalog) Tracks() ([]apimodel.Track, error) {
	entries, err := c.refresh()
	if err != nil {
		return nil, err
	}
	tracks := make([]apimodel.Track, len(entries))
	for i, e := range entries {
		tracks[i] = e.track
	}
	return tracks, nil
}

// Filename returns the audio file behind the track at index.
func (c *Catalog) Filename(index int) (string, bool) {
	entries, err := c.refresh()
	if err != nil || index < 0 || index >= len(entries) {
		return "", false
	}
	return entries[index].filename, true
}
