package status

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jypelle/piradio/apimodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWriter_PublishAndRead(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "cache", "now_playing.json")
	writer := NewFileWriter(filename)

	_, err := Read(filename)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	np := apimodel.NowPlaying{TrackIndex: 3, Title: "Song", File: "music/song.mp3", Cover: "album-art/song.jpg", SelectedBy: "Ana", StartTime: 1700000000}
	require.NoError(t, writer.Publish(np))

	got, err := Read(filename)
	require.NoError(t, err)
	assert.Equal(t, np, *got)

	raw, err := os.ReadFile(filename)
	require.NoError(t, err)
	for _, key := range []string{`"track_index"`, `"title"`, `"file"`, `"cover"`, `"selectedBy"`, `"start_time"`} {
		assert.Contains(t, string(raw), key)
	}
}

func TestFileWriter_ConcurrentReaderNeverSeesPartialRecord(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "now_playing.json")
	writer := NewFileWriter(filename)
	require.NoError(t, writer.Publish(apimodel.NowPlaying{Title: "start"}))

	long := make([]byte, 64*1024)
	for i := range long {
		long[i] = 'x'
	}

	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done)
		for i := 0; i < 300; i++ {
			title := "short"
			if i%2 == 0 {
				title = string(long)
			}
			if err := writer.Publish(apimodel.NowPlaying{TrackIndex: i, Title: title}); err != nil {
				t.Errorf("publish failed: %v", err)
				return
			}
		}
	}()

	for reading := true; reading; {
		select {
		case <-done:
			reading = false
		default:
			_, err := Read(filename)
			if err != nil {
				t.Fatalf("reader saw an invalid record: %v", err)
			}
		}
	}
	wg.Wait()
}
