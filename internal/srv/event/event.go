package event

import (
	"github.com/jypelle/piradio/apimodel"
	"time"
)

// Track
type TrackEventType int

const (
	TRACK_STARTED_EVENT_TYPE TrackEventType = iota
	TRACK_FINISHED_EVENT_TYPE
	TRACK_SKIPPED_EVENT_TYPE
	PLAYLIST_RESHUFFLED_EVENT_TYPE
)

func (t TrackEventType) String() string {
	switch t {
	case TRACK_STARTED_EVENT_TYPE:
		return "started"
	case TRACK_FINISHED_EVENT_TYPE:
		return "finished"
	case TRACK_SKIPPED_EVENT_TYPE:
		return "skipped"
	case PLAYLIST_RESHUFFLED_EVENT_TYPE:
		return "reshuffled"
	default:
		return "unknown"
	}
}

type TrackEvent struct {
	Type       TrackEventType
	TrackIndex int
	Track      apimodel.Track
	StartTime  time.Time
	Err        error
}

// Ticker
type TickerEvent struct {
	Time time.Time
}

// Buttons
type ButtonId int

const (
	NEXT_BUTTON ButtonId = iota
	VOLUME_UP_BUTTON
	VOLUME_DOWN_BUTTON
)

type ButtonEventType int

const (
	PRESS_EVENT_TYPE ButtonEventType = iota
	RELEASE_EVENT_TYPE
)

type ButtonEvent struct {
	ButtonId        ButtonId
	ButtonEventType ButtonEventType
	PressStepCount  int64
}
