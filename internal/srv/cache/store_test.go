package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		locator string
		want    string
		wantErr bool
	}{
		{"https://example.com/releases/download/v1/My%20Song.mp3", "My Song.mp3", false},
		{"http://example.com/a/b.mp3?token=1", "b.mp3", false},
		{"music/track.mp3", "track.mp3", false},
		{"../../etc/passwd", "passwd", false},
		{"https://example.com/a/..%2F..%2Fescape.mp3", "escape.mp3", false},
		{`..\..\windows.mp3`, "windows.mp3", false},
		{"https://example.com/", "", true},
		{"https://example.com/..", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.locator, func(t *testing.T) {
			got, err := FileName(tt.locator)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLocator)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "/")
			assert.NotContains(t, got, "\\")
		})
	}
}

func TestLocalPath_StaysInCacheFolder(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil, time.Second)

	for _, locator := range []string{"../../x.mp3", "https://h/%2E%2E/%2E%2E/y.mp3", "/abs/z.mp3"} {
		localPath, err := store.LocalPath(locator)
		require.NoError(t, err)
		assert.Equal(t, dir, filepath.Dir(localPath), locator)
	}
}

func TestEnsureLocal_DownloadsOnceThenHits(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("ID3 audio bytes"))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "cache")
	store := NewStore(dir, server.Client(), 5*time.Second)
	locator := server.URL + "/music/song.mp3"

	localPath, err := store.EnsureLocal(context.Background(), locator)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "song.mp3"), localPath)

	data, err := os.ReadFile(localPath)
	require.NoError(t, err)
	assert.Equal(t, "ID3 audio bytes", string(data))

	again, err := store.EnsureLocal(context.Background(), locator)
	require.NoError(t, err)
	assert.Equal(t, localPath, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "cache hit must not refetch")
}

func TestEnsureLocal_ExistingFileIsNotRevalidated(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.mp3"), []byte("stale"), 0o644))
	store := NewStore(dir, nil, time.Second)

	// unreachable host, would fail if a request were made
	localPath, err := store.EnsureLocal(context.Background(), "http://127.0.0.1:1/old.mp3")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "old.mp3"), localPath)
}

func TestEnsureLocal_FailureLeavesNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	dir := t.TempDir()
	store := NewStore(dir, server.Client(), time.Second)

	_, err := store.EnsureLocal(context.Background(), server.URL+"/missing.mp3")
	require.ErrorIs(t, err, ErrDownload)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEnsureLocal_TruncatedBodyLeavesNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		w.Write([]byte(strings.Repeat("x", 10)))
	}))
	defer server.Close()

	dir := t.TempDir()
	store := NewStore(dir, server.Client(), time.Second)

	_, err := store.EnsureLocal(context.Background(), server.URL+"/short.mp3")
	require.ErrorIs(t, err, ErrDownload)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEnsureLocal_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	store := NewStore(t.TempDir(), server.Client(), 50*time.Millisecond)

	start := time.Now()
	_, err := store.EnsureLocal(context.Background(), server.URL+"/slow.mp3")
	require.ErrorIs(t, err, ErrDownload)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestEnsureLocal_RejectsLocalLocators(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "cache")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	secret := filepath.Join(root, "secret.mp3")
	require.NoError(t, os.WriteFile(secret, []byte("x"), 0o644))
	relative, err := filepath.Rel(dir, secret)
	require.NoError(t, err)
	store := NewStore(dir, nil, time.Second)

	for _, locator := range []string{secret, relative, "../../etc/passwd", "/etc/passwd", "music/absent.mp3"} {
		localPath, err := store.EnsureLocal(context.Background(), locator)
		assert.ErrorIs(t, err, ErrInvalidLocator, locator)
		assert.Empty(t, localPath, locator)
	}

	// Even a cached copy is not reachable through a local locator
	require.NoError(t, os.WriteFile(filepath.Join(dir, "passwd"), []byte("x"), 0o644))
	_, err = store.EnsureLocal(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidLocator)
}
