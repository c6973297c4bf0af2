package sequencer

import (
	"context"
	"errors"
	"fmt"
	"github.com/jypelle/piradio/apimodel"
	"github.com/jypelle/piradio/internal/srv/event"
	"github.com/sirupsen/logrus"
	"math/rand"
	"sync"
	"time"
)

var ErrEmptyCatalog = errors.New("catalog is empty")

type TrackSource interface {
	FetchTracks(ctx context.Context) ([]apimodel.Track, error)
}

type Cache interface {
	EnsureLocal(ctx context.Context, locator string) (string, error)
}

type Player interface {
	Play(ctx context.Context, filename string, title string) error
}

type Publisher interface {
	Publish(nowPlaying apimodel.NowPlaying) error
}

type Options struct {
	// RetryDelay is the pause after a track failed to download or to play.
	RetryDelay     time.Duration
	PlayRetries    int
	ReshuffleDelay time.Duration
	Rand           *rand.Rand
	Now            func() time.Time
	// EventChannel, when set, receives track events. Events are dropped if nobody listens.
	EventChannel chan event.TrackEvent
}

// Sequencer pulls the catalog once and plays it forever in shuffled passes.
type Sequencer struct {
	lock      sync.RWMutex
	source    TrackSource
	cache     Cache
	player    Player
	publisher Publisher
	options   Options

	tracks []apimodel.Track
	order  *Order

	playing       bool
	stopPlayback  context.CancelFunc
	skipRequested bool
}

func New(source TrackSource, cache Cache, player Player, publisher Publisher, options Options) *Sequencer {
	if options.Rand == nil {
		options.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	return &Sequencer{
		source:    source,
		cache:     cache,
		player:    player,
		publisher: publisher,
		options:   options,
	}
}

// Run fetches the catalog then loops until ctx is done.
// Only a catalog error ends it early, per-track failures are skipped.
func (s *Sequencer) Run(ctx context.Context) error {
	if err := s.load(ctx); err != nil {
		return err
	}
	for ctx.Err() == nil {
		s.step(ctx)
	}
	logrus.Infof("Sequencer stopped")
	return nil
}

func (s *Sequencer) load(ctx context.Context) error {
	tracks, err := s.source.FetchTracks(ctx)
	if err != nil {
		return fmt.Errorf("unable to fetch catalog: %w", err)
	}
	if len(tracks) == 0 {
		return ErrEmptyCatalog
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	s.tracks = tracks
	s.order = NewOrder(len(tracks), s.options.Rand)
	logrus.Infof("Catalog loaded: %d tracks", len(tracks))
	return nil
}

func (s *Sequencer) step(ctx context.Context) {
	s.lock.Lock()
	if s.order.Exhausted() {
		s.order.Reshuffle(len(s.tracks))
		s.lock.Unlock()
		logrus.Infof("End of playlist, reshuffling %d tracks", len(s.tracks))
		s.emit(event.TrackEvent{Type: event.PLAYLIST_RESHUFFLED_EVENT_TYPE, TrackIndex: -1})
		sleep(ctx, s.options.ReshuffleDelay)
		return
	}
	index := s.order.Current()
	track := s.tracks[index]
	s.lock.Unlock()

	trackLog := logrus.WithFields(logrus.Fields{"index": index, "title": track.Title})

	s.publish(apimodel.NewNowPlaying(index, track, s.options.Now()))

	localPath, err := s.cache.EnsureLocal(ctx, track.File)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		trackLog.Warnf("Skipping track, download failed: %v", err)
		s.skip(ctx, index, track, err)
		return
	}

	for attempt := 0; ; attempt++ {
		startTime := s.options.Now()
		s.publish(apimodel.NewNowPlaying(index, track, startTime))
		s.emit(event.TrackEvent{Type: event.TRACK_STARTED_EVENT_TYPE, TrackIndex: index, Track: track, StartTime: startTime})

		skipped, err := s.play(ctx, localPath, track.Title)
		if ctx.Err() != nil {
			return
		}
		if skipped {
			trackLog.Infof("Track skipped on request")
			s.emit(event.TrackEvent{Type: event.TRACK_SKIPPED_EVENT_TYPE, TrackIndex: index, Track: track, StartTime: startTime})
			s.advance()
			return
		}
		if err == nil {
			trackLog.Debugf("Track finished")
			s.emit(event.TrackEvent{Type: event.TRACK_FINISHED_EVENT_TYPE, TrackIndex: index, Track: track, StartTime: startTime})
			s.advance()
			return
		}
		if attempt >= s.options.PlayRetries {
			trackLog.Warnf("Skipping track, playback failed: %v", err)
			s.skip(ctx, index, track, err)
			return
		}
		trackLog.Warnf("Playback failed, retrying: %v", err)
		sleep(ctx, s.options.RetryDelay)
	}
}

// play runs the player in the background and waits for it.
// skipped reports that Skip interrupted the track.
func (s *Sequencer) play(ctx context.Context, localPath string, title string) (skipped bool, err error) {
	playCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.lock.Lock()
	s.playing = true
	s.stopPlayback = cancel
	s.skipRequested = false
	s.lock.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- s.player.Play(playCtx, localPath, title)
	}()

	select {
	case err = <-done:
	case <-ctx.Done():
		logrus.Infof("Interrupted, stopping playback of \"%s\"", title)
		// the player gets the cancellation too and returns once the output is released
		err = <-done
	}

	s.lock.Lock()
	s.playing = false
	s.stopPlayback = nil
	skipped = s.skipRequested
	s.skipRequested = false
	s.lock.Unlock()

	return skipped, err
}

func (s *Sequencer) skip(ctx context.Context, index int, track apimodel.Track, err error) {
	s.emit(event.TrackEvent{Type: event.TRACK_SKIPPED_EVENT_TYPE, TrackIndex: index, Track: track, Err: err})
	s.advance()
	sleep(ctx, s.options.RetryDelay)
}

func (s *Sequencer) advance() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.order.Advance()
}

func (s *Sequencer) publish(nowPlaying apimodel.NowPlaying) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(nowPlaying); err != nil {
		logrus.Warnf("Unable to publish now playing state: %v", err)
	}
}

func (s *Sequencer) emit(ev event.TrackEvent) {
	if s.options.EventChannel == nil {
		return
	}
	select {
	case s.options.EventChannel <- ev:
	default:
		logrus.Debugf("Track event %s dropped", ev.Type)
	}
}

// Skip interrupts the current track, the loop moves on at once.
// It returns false when nothing is playing.
func (s *Sequencer) Skip() bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.playing || s.stopPlayback == nil {
		return false
	}
	s.skipRequested = true
	s.stopPlayback()
	return true
}

func (s *Sequencer) IsPlaying() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.playing
}

// Position returns the play order and the cursor in it.
func (s *Sequencer) Position() (order []int, cursor int) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.order == nil {
		return nil, 0
	}
	return s.order.Indexes(), s.order.Cursor()
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
