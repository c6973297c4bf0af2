package apimodel

import "time"

// NowPlaying is the record published to now_playing.json.
// StartTime is expressed in epoch seconds.
type NowPlaying struct {
	TrackIndex int    `json:"track_index"`
	Title      string `json:"title"`
	File       string `json:"file"`
	Cover      string `json:"cover"`
	SelectedBy string `json:"selectedBy"`
	StartTime  int64  `json:"start_time"`
}

func NewNowPlaying(trackIndex int, track Track, start time.Time) NowPlaying {
	return NowPlaying{
		TrackIndex: trackIndex,
		Title:      track.Title,
		File:       track.File,
		Cover:      track.Cover,
		SelectedBy: track.SelectedBy,
		StartTime:  start.Unix(),
	}
}

// Elapsed never goes below zero, even if the clock moved backward.
func (n *NowPlaying) Elapsed(now time.Time) time.Duration {
	elapsed := now.Sub(time.Unix(n.StartTime, 0))
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
