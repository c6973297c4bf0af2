package srv

import (
	"context"
	"github.com/jypelle/piradio/internal/srv/cache"
	"github.com/jypelle/piradio/internal/srv/catalog"
	"github.com/jypelle/piradio/internal/srv/config"
	"github.com/jypelle/piradio/internal/srv/device"
	"github.com/jypelle/piradio/internal/srv/event"
	"github.com/jypelle/piradio/internal/srv/history"
	"github.com/jypelle/piradio/internal/srv/sequencer"
	"github.com/jypelle/piradio/internal/srv/status"
	"github.com/jypelle/piradio/internal/version"
	"github.com/sirupsen/logrus"
	"net/http"
)

// ServerApp is the playback daemon: it fetches the catalog, then plays it forever.
type ServerApp struct {
	*config.ServerConfig
	engine        *device.Engine
	audioDevice   *device.Audio
	buttonsDevice *device.Buttons
	statusWriter  *status.FileWriter
	historyStore  *history.Store
	sequencer     *sequencer.Sequencer

	trackEventChannel chan event.TrackEvent

	eventLoopAskDone chan bool
	eventLoopDone    chan bool
}

func NewServerApp(serverConfig *config.ServerConfig) (*ServerApp, error) {
	logrus.Debugf("Creation of piradio server %s ...", version.AppVersion.String())

	clientParam := serverConfig.ClientParam

	app := &ServerApp{
		ServerConfig:      serverConfig,
		trackEventChannel: make(chan event.TrackEvent, 16),
		eventLoopAskDone:  make(chan bool),
		eventLoopDone:     make(chan bool),
	}

	catalogClient, err := catalog.NewClient(clientParam.ServerUrl, &http.Client{}, clientParam.RequestTimeout)
	if err != nil {
		return nil, err
	}
	cacheStore := cache.NewStore(clientParam.CacheDir, &http.Client{}, clientParam.DownloadTimeout)

	app.buttonsDevice, err = device.NewButtons(map[event.ButtonId]string{
		event.NEXT_BUTTON:        serverConfig.ButtonsParam.Next,
		event.VOLUME_UP_BUTTON:   serverConfig.ButtonsParam.VolumeUp,
		event.VOLUME_DOWN_BUTTON: serverConfig.ButtonsParam.VolumeDown,
	})
	if err != nil {
		return nil, err
	}

	app.engine = device.NewEngine(device.Probe(device.ProbeOptions{
		Backend:       clientParam.Backend,
		PlayerCommand: clientParam.PlayerCommand,
		StopTimeout:   clientParam.StopTimeout,
		Gain:          clientParam.Gain,
	}))
	app.audioDevice = device.NewAudio(serverConfig.ServerState, clientParam.MixerControl, serverConfig.ButtonsParam.VolumeStep)
	app.statusWriter = status.NewFileWriter(serverConfig.GetCompleteNowPlayingFilename())

	if clientParam.History {
		app.historyStore, err = history.Open(serverConfig.GetCompleteHistoryFilename())
		if err != nil {
			logrus.Warnf("Play history disabled: %v", err)
			app.historyStore = nil
		}
	}

	app.sequencer = sequencer.New(catalogClient, cacheStore, app.engine, app.statusWriter, sequencer.Options{
		RetryDelay:     clientParam.RetryDelay,
		PlayRetries:    clientParam.PlayRetries,
		ReshuffleDelay: clientParam.ReshuffleDelay,
		EventChannel:   app.trackEventChannel,
	})

	logrus.Debugln("Server created")

	return app, nil
}

// Run starts the devices and plays until ctx is done.
func (s *ServerApp) Run(ctx context.Context) error {
	s.Start()
	defer s.Stop()

	return s.sequencer.Run(ctx)
}

func (s *ServerApp) Start() {
	logrus.Printf("Starting piradio server ...")

	s.audioDevice.Start()
	s.engine.Start()

	go s.eventLoop()

	s.buttonsDevice.Start()

	logrus.Infof("Now playing state published to %s", s.statusWriter.Filename())
}

func (s *ServerApp) Stop() {
	logrus.Printf("Stopping piradio server ...")

	s.buttonsDevice.StopSendingEvent()

	logrus.Infof("Stop event loop")
	s.eventLoopAskDone <- true
	<-s.eventLoopDone

	if err := s.engine.Close(); err != nil {
		logrus.Warnf("Unable to release audio backend: %v", err)
	}
	s.audioDevice.Stop()

	if s.historyStore != nil {
		if err := s.historyStore.Close(); err != nil {
			logrus.Warnf("Unable to close play history: %v", err)
		}
	}

	s.ServerConfig.ServerState.FlushSave()

	logrus.Printf("Server stopped")
}

// Skip interrupts the current track.
func (s *ServerApp) Skip() bool {
	order, cursor := s.sequencer.Position()
	if !s.sequencer.Skip() {
		logrus.Infof("Nothing to skip")
		return false
	}
	logrus.Infof("Skipping track %d of %d", cursor+1, len(order))
	return true
}

func (s *ServerApp) IsPlaying() bool {
	return s.sequencer.IsPlaying()
}
