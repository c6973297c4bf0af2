package tool

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFileExists(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "present")
	require.NoError(t, os.WriteFile(filename, []byte("x"), 0o644))

	exists, err := IsFileExists(filename)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = IsFileExists(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "state.json")

	require.NoError(t, WriteFileAtomic(filename, []byte("first"), 0o644))
	require.NoError(t, WriteFileAtomic(filename, []byte("second"), 0o644))

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestWriteFileAtomic_ReadersNeverSeePartialContent(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "state.json")
	small := []byte("{}")
	large := make([]byte, 256*1024)
	for i := range large {
		large[i] = 'a'
	}
	require.NoError(t, WriteFileAtomic(filename, small, 0o644))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			content := small
			if i%2 == 0 {
				content = large
			}
			if err := WriteFileAtomic(filename, content, 0o644); err != nil {
				t.Errorf("write failed: %v", err)
				return
			}
		}
		close(stop)
	}()

	for done := false; !done; {
		select {
		case <-stop:
			done = true
		default:
			data, err := os.ReadFile(filename)
			require.NoError(t, err)
			if len(data) != len(small) && len(data) != len(large) {
				t.Fatalf("read partial content of %d bytes", len(data))
			}
		}
	}
	wg.Wait()
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".radio_cache"), ExpandPath("~/.radio_cache"))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
	assert.Equal(t, "rel", ExpandPath("rel"))
}
