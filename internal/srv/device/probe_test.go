package device

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubProbe(t *testing.T, beepErr error, available ...string) {
	t.Helper()
	previousLookPath, previousBeep := lookPath, newBeepPlayer
	t.Cleanup(func() {
		lookPath, newBeepPlayer = previousLookPath, previousBeep
	})

	lookPath = func(file string) (string, error) {
		for _, name := range available {
			if name == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", errors.New("not found")
	}
	newBeepPlayer = func(sampleRate int, gain float64) (Backend, error) {
		if beepErr != nil {
			return nil, beepErr
		}
		return newBlockingBackend(), nil
	}
}

func TestProbe_AutoPrefersInProcess(t *testing.T) {
	stubProbe(t, nil, "mpg123")

	backend := Probe(ProbeOptions{Backend: "auto"})
	assert.Equal(t, "blocking", backend.Name())
}

func TestProbe_AutoFallsBackToProcess(t *testing.T) {
	stubProbe(t, errors.New("no sound card"), "cvlc")

	backend := Probe(ProbeOptions{Backend: "auto", StopTimeout: time.Second})
	player, ok := backend.(*ProcessPlayer)
	require.True(t, ok)
	assert.Equal(t, "cvlc", player.Name())
}

func TestProbe_ConfiguredCommand(t *testing.T) {
	stubProbe(t, errors.New("no sound card"), "mpg123", "aplay")

	backend := Probe(ProbeOptions{Backend: "process", PlayerCommand: []string{"aplay", "-q"}})
	assert.Equal(t, "aplay", backend.Name())
}

func TestProbe_NothingAvailable(t *testing.T) {
	stubProbe(t, errors.New("no sound card"))

	assert.Equal(t, "none", Probe(ProbeOptions{Backend: "auto"}).Name())
	assert.Equal(t, "none", Probe(ProbeOptions{Backend: "beep"}).Name())
	assert.Equal(t, "none", Probe(ProbeOptions{Backend: "process"}).Name())
}

func TestProbe_Disabled(t *testing.T) {
	stubProbe(t, nil, "mpg123")

	assert.Equal(t, "none", Probe(ProbeOptions{Backend: "none"}).Name())
}
