package status

import (
	"encoding/json"
	"fmt"
	"github.com/jypelle/piradio/apimodel"
	"github.com/jypelle/piradio/internal/tool"
	"os"
	"path/filepath"
)

// FileWriter publishes the now playing record by atomically replacing a JSON file.
type FileWriter struct {
	filename string
}

func NewFileWriter(filename string) *FileWriter {
	return &FileWriter{filename: filename}
}

func (w *FileWriter) Filename() string {
	return w.filename
}

func (w *FileWriter) Publish(nowPlaying apimodel.NowPlaying) error {
	data, err := json.MarshalIndent(nowPlaying, "", "  ")
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(w.filename), 0755); err != nil {
		return err
	}
	return tool.WriteFileAtomic(w.filename, data, 0644)
}

// Read returns the published record. The error wraps os.ErrNotExist when nothing was published.
func Read(filename string) (*apimodel.NowPlaying, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func decode(data []byte) (*apimodel.NowPlaying, error) {
	nowPlaying := &apimodel.NowPlaying{}
	if err := json.Unmarshal(data, nowPlaying); err != nil {
		return nil, fmt.Errorf("invalid now playing file: %w", err)
	}
	return nowPlaying, nil
}
