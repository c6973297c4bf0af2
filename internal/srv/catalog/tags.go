package catalog

import (
	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	"github.com/gopxl/beep/v2/mp3"
	"os"
	"time"
)

type trackTags struct {
	Title   string
	Artist  string
	Album   string
	Picture []byte
}

// readTags reads the common tags, falling back to a plain ID3v2 parser for files the generic reader rejects.
func readTags(filename string) trackTags {
	f, err := os.Open(filename)
	if err != nil {
		return trackTags{}
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return readID3v2Tags(filename)
	}

	tags := trackTags{
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
	}
	if picture := m.Picture(); picture != nil {
		tags.Picture = picture.Data
	}
	return tags
}

func readID3v2Tags(filename string) trackTags {
	id3tag, err := id3v2.Open(filename, id3v2.Options{Parse: true})
	if err != nil {
		return trackTags{}
	}
	defer id3tag.Close()

	tags := trackTags{
		Title:  id3tag.Title(),
		Artist: id3tag.Artist(),
		Album:  id3tag.Album(),
	}
	for _, frame := range id3tag.GetFrames(id3tag.CommonID("Attached picture")) {
		if picture, ok := frame.(id3v2.PictureFrame); ok && len(picture.Picture) > 0 {
			tags.Picture = picture.Picture
			break
		}
	}
	return tags
}

// readDuration decodes the mp3 stream header, it returns 0 when the file can't be decoded.
func readDuration(filename string) time.Duration {
	f, err := os.Open(filename)
	if err != nil {
		return 0
	}
	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return 0
	}
	defer streamer.Close()
	return format.SampleRate.D(streamer.Len())
}
