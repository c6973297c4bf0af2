package srv

import (
	"context"
	"errors"
	"github.com/jypelle/piradio/apimodel"
	"github.com/jypelle/piradio/internal/srv/config"
	"github.com/jypelle/piradio/internal/srv/device"
	"github.com/jypelle/piradio/internal/srv/status"
	"github.com/sirupsen/logrus"
	"image"
	"os"
	"time"
)

const animationPeriod = 100 * time.Millisecond

type Screen interface {
	ShowImage(img image.Image)
}

// DisplayApp shows the published now playing record on the OLED screen.
type DisplayApp struct {
	*config.ServerConfig
	displayDevice *device.Display
	clockDevice   *device.Clock
	watcher       *status.Watcher

	nowPlaying *apimodel.NowPlaying
	tickCount  int
}

func NewDisplayApp(serverConfig *config.ServerConfig) (*DisplayApp, error) {
	displayDevice, err := device.NewDisplay()
	if err != nil {
		return nil, err
	}
	return &DisplayApp{
		ServerConfig:  serverConfig,
		displayDevice: displayDevice,
		clockDevice:   device.NewClock(animationPeriod),
		watcher:       status.NewWatcher(serverConfig.GetCompleteNowPlayingFilename(), serverConfig.DisplayParam.PollInterval),
	}, nil
}

func (s *DisplayApp) Run(ctx context.Context) error {
	if err := s.displayDevice.Start(); err != nil {
		return err
	}
	s.clockDevice.Start()

	snapshots := s.watcher.Watch(ctx)
	s.refreshDisplay(s.displayDevice, time.Now())

	for loop := true; loop; {
		select {
		case snapshot, ok := <-snapshots:
			if !ok {
				loop = false
				break
			}
			s.applySnapshot(snapshot)
			s.refreshDisplay(s.displayDevice, time.Now())
		case ev := <-s.clockDevice.EventChannel():
			s.tickCount++
			s.refreshDisplay(s.displayDevice, ev.Time)
		case <-ctx.Done():
			loop = false
		}
	}

	s.clockDevice.StopSendingEvent()
	s.displayDevice.ShowImage(renderGoodbye())
	s.displayDevice.Stop()
	return nil
}

func (s *DisplayApp) applySnapshot(snapshot status.Snapshot) {
	if snapshot.Err != nil && !errors.Is(snapshot.Err, os.ErrNotExist) {
		logrus.Debugf("Unable to read now playing file: %v", snapshot.Err)
	}
	if snapshot.NowPlaying != nil && (s.nowPlaying == nil || s.nowPlaying.Title != snapshot.NowPlaying.Title) {
		s.tickCount = 0
	}
	s.nowPlaying = snapshot.NowPlaying
}

func (s *DisplayApp) refreshDisplay(screen Screen, now time.Time) {
	if s.nowPlaying == nil {
		screen.ShowImage(renderWaiting(s.tickCount))
		return
	}
	screen.ShowImage(renderNowPlaying(s.nowPlaying, now, s.tickCount, s.DisplayParam.ScrollStep))
}
