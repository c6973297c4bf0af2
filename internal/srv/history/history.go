package history

import (
	"database/sql"
	"fmt"
	"github.com/jypelle/piradio/internal/srv/event"
	"github.com/sirupsen/logrus"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

type Outcome string

const (
	OutcomePlayed  Outcome = "played"
	OutcomeSkipped Outcome = "skipped"
)

type Entry struct {
	ID         int64
	TrackIndex int
	Title      string
	File       string
	SelectedBy string
	StartedAt  time.Time
	Outcome    Outcome
	Reason     string
}

// Store is the play history kept next to the audio cache.
type Store struct {
	db *sql.DB
}

func Open(filename string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, err
	}
	if err = initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS plays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			track_index INTEGER NOT NULL,
			title TEXT NOT NULL,
			file TEXT NOT NULL,
			selected_by TEXT NOT NULL DEFAULT '',
			started_at INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_plays_started_at ON plays(started_at);
	`)
	if err != nil {
		return fmt.Errorf("unable to create history schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Record(entry Entry) error {
	_, err := s.db.Exec(
		`INSERT INTO plays (track_index, title, file, selected_by, started_at, outcome, reason) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.TrackIndex, entry.Title, entry.File, entry.SelectedBy, entry.StartedAt.Unix(), string(entry.Outcome), entry.Reason,
	)
	return err
}

// RecordEvent stores finished and skipped tracks, other events are ignored.
func (s *Store) RecordEvent(ev event.TrackEvent) {
	entry := Entry{
		TrackIndex: ev.TrackIndex,
		Title:      ev.Track.Title,
		File:       ev.Track.File,
		SelectedBy: ev.Track.SelectedBy,
		StartedAt:  ev.StartTime,
	}
	switch ev.Type {
	case event.TRACK_FINISHED_EVENT_TYPE:
		entry.Outcome = OutcomePlayed
	case event.TRACK_SKIPPED_EVENT_TYPE:
		entry.Outcome = OutcomeSkipped
		if ev.Err != nil {
			entry.Reason = ev.Err.Error()
		}
	default:
		return
	}
	if entry.StartedAt.IsZero() {
		entry.StartedAt = time.Now()
	}
	if err := s.Record(entry); err != nil {
		logrus.Warnf("Unable to record play history: %v", err)
	}
}

// Recent returns the latest entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, track_index, title, file, selected_by, started_at, outcome, reason FROM plays ORDER BY started_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var startedAt int64
		var outcome string
		if err := rows.Scan(&entry.ID, &entry.TrackIndex, &entry.Title, &entry.File, &entry.SelectedBy, &startedAt, &outcome, &entry.Reason); err != nil {
			return nil, err
		}
		entry.StartedAt = time.Unix(startedAt, 0)
		entry.Outcome = Outcome(outcome)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Counts returns how many times each file was played to the end.
func (s *Store) Counts() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT file, COUNT(*) FROM plays WHERE outcome = ? GROUP BY file`, string(OutcomePlayed))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var file string
		var count int
		if err := rows.Scan(&file, &count); err != nil {
			return nil, err
		}
		counts[file] = count
	}
	return counts, rows.Err()
}
