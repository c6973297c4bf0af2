package srv

import (
	"github.com/jypelle/piradio/apimodel"
	"github.com/jypelle/piradio/internal/srv/status"
	"image"
	"time"
)

const pulseBarCount = 21

var spinnerFrames = []string{"|", "/", "-", "\\"}

// renderNowPlaying draws the OLED frame for the current track.
// tickCount drives the title scrolling.
func renderNowPlaying(nowPlaying *apimodel.NowPlaying, now time.Time, tickCount int, scrollStep int) *image.RGBA {
	img := newScreenImage()

	title := nowPlaying.Title
	if title == "" {
		title = "Unknown"
	}
	AddScrollingLabel(img, 11, title, tickCount*scrollStep)

	// Pulse bars
	for i, level := range status.PulseLevels(now, pulseBarCount) {
		height := int(level * 22)
		x := 1 + i*6
		AddRect(img, image.Rect(x, 40-height, x+4, 40))
	}

	AddLabel(img, 0, 51, "> "+status.FormatElapsed(nowPlaying.Elapsed(now)))

	selectedBy := nowPlaying.SelectedBy
	if selectedBy == "" {
		selectedBy = "Unknown"
	}
	AddScrollingLabel(img, 62, "by "+selectedBy, tickCount*scrollStep)

	return img
}

func renderWaiting(tickCount int) *image.RGBA {
	img := newScreenImage()
	AddCenteredLabel(img, 24, spinnerFrames[tickCount%len(spinnerFrames)]+" Waiting for")
	AddCenteredLabel(img, 38, "now_playing.json")
	return img
}

func renderGoodbye() *image.RGBA {
	img := newScreenImage()
	AddCenteredLabel(img, 36, "See you!")
	return img
}
