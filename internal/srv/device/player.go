package device

import (
	"context"
	"errors"
	"github.com/sirupsen/logrus"
	"sync"
)

var (
	ErrNoBackend     = errors.New("no audio backend available")
	ErrPlaybackStart = errors.New("unable to start playback")
	ErrStopped       = errors.New("playback stopped")
)

// Backend plays a local audio file.
// Play blocks until the end of the file and gives up as soon as ctx is done.
type Backend interface {
	Name() string
	Play(ctx context.Context, filename string) error
	Close() error
}

// Engine owns the audio output: at most one track plays at any time.
type Engine struct {
	lock    sync.RWMutex
	backend Backend
	current *playback
}

type playback struct {
	title  string
	cancel context.CancelFunc
	done   chan struct{}
}

func NewEngine(backend Backend) *Engine {
	return &Engine{backend: backend}
}

func (e *Engine) Start() {
	logrus.Infof("Start audio engine device (%s backend)", e.backend.Name())
}

// Play stops whatever is playing, then plays filename until its end.
// It returns ErrStopped when interrupted by Stop.
func (e *Engine) Play(ctx context.Context, filename string, title string) error {
	playCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	current := &playback{
		title:  title,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	for {
		e.lock.Lock()
		previous := e.current
		if previous == nil {
			e.current = current
			e.lock.Unlock()
			break
		}
		e.lock.Unlock()

		previous.cancel()
		<-previous.done
	}

	logrus.Infof("Playing \"%s\"", title)
	err := e.backend.Play(playCtx, filename)

	e.lock.Lock()
	e.current = nil
	close(current.done)
	e.lock.Unlock()

	if err != nil && ctx.Err() == nil && playCtx.Err() != nil {
		return ErrStopped
	}
	return err
}

// Stop interrupts the current playback and waits for the backend to release the output.
func (e *Engine) Stop() {
	e.lock.RLock()
	current := e.current
	e.lock.RUnlock()

	if current == nil {
		return
	}
	logrus.Debugf("Stopping \"%s\"", current.title)
	current.cancel()
	<-current.done
}

func (e *Engine) IsPlaying() bool {
	e.lock.RLock()
	defer e.lock.RUnlock()
	return e.current != nil
}

func (e *Engine) CurrentTitle() string {
	e.lock.RLock()
	defer e.lock.RUnlock()
	if e.current == nil {
		return ""
	}
	return e.current.title
}

func (e *Engine) BackendName() string {
	return e.backend.Name()
}

func (e *Engine) Close() error {
	logrus.Infof("Stop audio engine device")
	e.Stop()
	return e.backend.Close()
}

// NoBackend is used when probing found nothing able to produce sound.
type NoBackend struct{}

func (NoBackend) Name() string { return "none" }

func (NoBackend) Play(ctx context.Context, filename string) error {
	logrus.Warnf("!!! No audio backend available, unable to play %s. Install mpg123 or check the sound card !!!", filename)
	return ErrNoBackend
}

func (NoBackend) Close() error { return nil }
