package srv

import (
	"github.com/jypelle/piradio/internal/srv/event"
	"github.com/sirupsen/logrus"
)

func (s *ServerApp) eventLoop() {
	for loop := true; loop; {
		select {
		case ev := <-s.trackEventChannel:
			s.handleTrackEvent(ev)
		case ev := <-s.buttonsDevice.EventChannel():
			s.handleButtonEvent(ev)
		case <-s.eventLoopAskDone:
			loop = false
		}
	}
	// Keep the last events of the run in history
	for drain := true; drain; {
		select {
		case ev := <-s.trackEventChannel:
			s.handleTrackEvent(ev)
		default:
			drain = false
		}
	}
	s.eventLoopDone <- true
}

func (s *ServerApp) handleTrackEvent(ev event.TrackEvent) {
	logrus.Debugf("Receive track %s event: %d", ev.Type, ev.TrackIndex)
	switch ev.Type {
	case event.TRACK_FINISHED_EVENT_TYPE:
		s.ServerState.IncrementPlayedCount()
	case event.TRACK_STARTED_EVENT_TYPE, event.PLAYLIST_RESHUFFLED_EVENT_TYPE:
		return
	}
	if s.historyStore != nil {
		s.historyStore.RecordEvent(ev)
	}
}

func (s *ServerApp) handleButtonEvent(ev event.ButtonEvent) {
	logrus.Debugf("Receive button event: %d, %d, %d", ev.ButtonId, ev.ButtonEventType, ev.PressStepCount)
	if ev.ButtonEventType != event.PRESS_EVENT_TYPE {
		return
	}
	switch ev.ButtonId {
	case event.NEXT_BUTTON:
		if ev.PressStepCount == 1 {
			logrus.Infof("Next track requested")
			s.sequencer.Skip()
		}
	case event.VOLUME_UP_BUTTON:
		logrus.Debugf("Volume: %d", s.audioDevice.IncreaseVolume())
	case event.VOLUME_DOWN_BUTTON:
		logrus.Debugf("Volume: %d", s.audioDevice.DecreaseVolume())
	}
}
