package device

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type memoryVolume struct{ volume int64 }

func (m *memoryVolume) Volume() int64 { return m.volume }

func (m *memoryVolume) SetVolume(volume int64) int64 {
	if volume > 100 {
		volume = 100
	}
	if volume < 0 {
		volume = 0
	}
	m.volume = volume
	return volume
}

func TestAudio_Volume(t *testing.T) {
	var commands []string
	previous := runCommand
	runCommand = func(name string, args ...string) error {
		commands = append(commands, name+" "+strings.Join(args, " "))
		return nil
	}
	defer func() { runCommand = previous }()

	audio := NewAudio(&memoryVolume{volume: 98}, "PCM", 4)
	audio.Start()
	assert.Equal(t, int64(100), audio.IncreaseVolume())
	assert.Equal(t, int64(96), audio.DecreaseVolume())
	assert.Equal(t, int64(0), audio.SetVolume(-5))

	assert.Equal(t, []string{
		"amixer -q set PCM 98%",
		"amixer -q set PCM 100%",
		"amixer -q set PCM 96%",
		"amixer -q set PCM 0%",
	}, commands)
}

func TestAudio_NoMixer(t *testing.T) {
	called := false
	previous := runCommand
	runCommand = func(name string, args ...string) error {
		called = true
		return nil
	}
	defer func() { runCommand = previous }()

	audio := NewAudio(&memoryVolume{volume: 50}, "", 4)
	audio.Start()
	assert.Equal(t, int64(54), audio.IncreaseVolume())
	assert.False(t, called)
}
