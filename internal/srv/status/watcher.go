package status

import (
	"bytes"
	"context"
	"github.com/fsnotify/fsnotify"
	"github.com/jypelle/piradio/apimodel"
	"github.com/sirupsen/logrus"
	"os"
	"path/filepath"
	"time"
)

// Snapshot is what a watcher saw in the status file. NowPlaying is nil when the file is absent or unreadable.
type Snapshot struct {
	NowPlaying *apimodel.NowPlaying
	Err        error
}

// Watcher polls the status file and uses file system notifications, when available, to react faster.
type Watcher struct {
	filename     string
	pollInterval time.Duration
}

func NewWatcher(filename string, pollInterval time.Duration) *Watcher {
	return &Watcher{filename: filename, pollInterval: pollInterval}
}

// Watch emits the current content, then every change, until ctx is done.
func (w *Watcher) Watch(ctx context.Context) <-chan Snapshot {
	snapshots := make(chan Snapshot, 1)

	go func() {
		defer close(snapshots)

		var notifications chan fsnotify.Event
		var notifierErrors chan error
		notifier, err := fsnotify.NewWatcher()
		if err != nil {
			logrus.Warnf("File notifications unavailable, polling only: %v", err)
		} else {
			defer notifier.Close()
			// The file is replaced by rename, so the folder is watched
			dir := filepath.Dir(w.filename)
			if err = os.MkdirAll(dir, 0755); err == nil {
				err = notifier.Add(dir)
			}
			if err != nil {
				logrus.Warnf("Unable to watch %s, polling only: %v", dir, err)
			} else {
				notifications = notifier.Events
				notifierErrors = notifier.Errors
			}
		}

		w.loop(ctx, snapshots, notifications, notifierErrors)
	}()

	return snapshots
}

func (w *Watcher) loop(ctx context.Context, snapshots chan<- Snapshot, notifications <-chan fsnotify.Event, notifierErrors <-chan error) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	var last []byte
	first := true
	check := func() bool {
		data, err := os.ReadFile(w.filename)
		if err != nil {
			data = nil
		}
		if !first && bytes.Equal(data, last) {
			return true
		}
		first = false
		last = data

		snapshot := Snapshot{Err: err}
		if err == nil {
			snapshot.NowPlaying, snapshot.Err = decode(data)
		}
		select {
		case snapshots <- snapshot:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !check() {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-notifications:
			if !ok {
				notifications = nil
				continue
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.filename) {
				continue
			}
			if !check() {
				return
			}
		case err, ok := <-notifierErrors:
			if !ok {
				notifierErrors = nil
				continue
			}
			logrus.Debugf("File notification error: %v", err)
		case <-ticker.C:
			if !check() {
				return
			}
		}
	}
}
