package device

import (
	"github.com/sirupsen/logrus"
	"os/exec"
	"strconv"
	"sync"
)

var runCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

type VolumeState interface {
	Volume() int64
	SetVolume(volume int64) int64
}

// Audio drives the ALSA mixer, whatever backend produces the sound.
type Audio struct {
	lock         sync.RWMutex
	volumeState  VolumeState
	mixerControl string
	volumeStep   int64
}

func NewAudio(volumeState VolumeState, mixerControl string, volumeStep int64) *Audio {
	device := Audio{
		volumeState:  volumeState,
		mixerControl: mixerControl,
		volumeStep:   volumeStep,
	}
	return &device
}

func (w *Audio) Start() {
	logrus.Infof("Start audio device")

	w.lock.Lock()
	defer w.lock.Unlock()

	w.applyVolume()
}

func (w *Audio) Stop() {
	logrus.Infof("Stop audio device")
}

func (w *Audio) applyVolume() {
	if w.mixerControl == "" {
		return
	}
	err := runCommand("amixer", "-q", "set", w.mixerControl, strconv.FormatInt(w.volumeState.Volume(), 10)+"%")
	if err != nil {
		logrus.Warnf("Unable to set volume: %v", err)
	}
}

func (w *Audio) IncreaseVolume() int64 {
	w.lock.Lock()
	defer w.lock.Unlock()
	volume := w.volumeState.SetVolume(w.volumeState.Volume() + w.volumeStep)
	logrus.Infof("Increase volume to %d%%", volume)
	w.applyVolume()
	return volume
}

func (w *Audio) DecreaseVolume() int64 {
	w.lock.Lock()
	defer w.lock.Unlock()
	volume := w.volumeState.SetVolume(w.volumeState.Volume() - w.volumeStep)
	logrus.Infof("Decrease volume to %d%%", volume)
	w.applyVolume()
	return volume
}

func (w *Audio) SetVolume(volume int64) int64 {
	w.lock.Lock()
	defer w.lock.Unlock()
	volume = w.volumeState.SetVolume(volume)
	logrus.Infof("Set volume to %d%%", volume)
	w.applyVolume()
	return volume
}
