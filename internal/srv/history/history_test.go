package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jypelle/piradio/apimodel"
	"github.com/jypelle/piradio/internal/srv/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	base := time.Unix(1700000000, 0)

	require.NoError(t, store.Record(Entry{TrackIndex: 0, Title: "A", File: "a.mp3", StartedAt: base, Outcome: OutcomePlayed}))
	require.NoError(t, store.Record(Entry{TrackIndex: 1, Title: "B", File: "b.mp3", SelectedBy: "Ana", StartedAt: base.Add(time.Minute), Outcome: OutcomeSkipped, Reason: "404"}))
	require.NoError(t, store.Record(Entry{TrackIndex: 0, Title: "A", File: "a.mp3", StartedAt: base.Add(2 * time.Minute), Outcome: OutcomePlayed}))

	entries, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "A", entries[0].Title)
	assert.Equal(t, base.Add(2*time.Minute).Unix(), entries[0].StartedAt.Unix())
	assert.Equal(t, "B", entries[1].Title)
	assert.Equal(t, OutcomeSkipped, entries[1].Outcome)
	assert.Equal(t, "404", entries[1].Reason)
	assert.Equal(t, "Ana", entries[1].SelectedBy)

	counts, err := store.Counts()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a.mp3": 2}, counts)
}

func TestRecordEvent(t *testing.T) {
	store := openTestStore(t)
	track := apimodel.Track{Title: "Song", File: "song.mp3"}
	start := time.Unix(1700000000, 0)

	store.RecordEvent(event.TrackEvent{Type: event.TRACK_STARTED_EVENT_TYPE, Track: track, StartTime: start})
	store.RecordEvent(event.TrackEvent{Type: event.TRACK_FINISHED_EVENT_TYPE, Track: track, StartTime: start})
	store.RecordEvent(event.TrackEvent{Type: event.TRACK_SKIPPED_EVENT_TYPE, TrackIndex: 4, Track: track, Err: errors.New("download failed")})
	store.RecordEvent(event.TrackEvent{Type: event.PLAYLIST_RESHUFFLED_EVENT_TYPE})

	entries, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var outcomes []Outcome
	for _, entry := range entries {
		outcomes = append(outcomes, entry.Outcome)
	}
	assert.ElementsMatch(t, []Outcome{OutcomePlayed, OutcomeSkipped}, outcomes)
}

func TestOpen_Reopen(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := Open(filename)
	require.NoError(t, err)
	require.NoError(t, store.Record(Entry{Title: "A", File: "a.mp3", StartedAt: time.Now(), Outcome: OutcomePlayed}))
	require.NoError(t, store.Close())

	store, err = Open(filename)
	require.NoError(t, err)
	defer store.Close()
	entries, err := store.Recent(10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
