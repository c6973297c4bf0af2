package device

import (
	"context"
	"fmt"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const resampleQuality = 4

// BeepPlayer decodes and plays files in-process through the speaker.
type BeepPlayer struct {
	sampleRate beep.SampleRate
	gain       float64
}

// NewBeepPlayer opens the sound card, it fails when no audio output is reachable.
// gain follows beep's base 2 scale: 0 keeps the level, -1 halves it.
func NewBeepPlayer(sampleRate int, gain float64) (*BeepPlayer, error) {
	sr := beep.SampleRate(sampleRate)
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &BeepPlayer{sampleRate: sr, gain: gain}, nil
}

func (d *BeepPlayer) Name() string {
	return "beep"
}

func (d *BeepPlayer) Play(ctx context.Context, filename string) error {
	streamer, format, err := decodeFile(filename)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPlaybackStart, err)
	}
	defer streamer.Close()

	var source beep.Streamer = streamer
	if format.SampleRate != d.sampleRate {
		source = beep.Resample(resampleQuality, format.SampleRate, d.sampleRate, streamer)
	}
	volume := &effects.Volume{
		Streamer: source,
		Base:     2,
		Volume:   d.gain,
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(volume, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return streamer.Err()
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

func (d *BeepPlayer) Close() error {
	speaker.Clear()
	speaker.Close()
	return nil
}

func decodeFile(filename string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".ogg", ".oga":
		streamer, format, err = vorbis.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		err = fmt.Errorf("unsupported format: %s", ext)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, err
	}
	return streamer, format, nil
}
