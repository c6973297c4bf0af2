package device

import (
	"github.com/sirupsen/logrus"
	"os/exec"
	"time"
)

var lookPath = exec.LookPath

var newBeepPlayer = func(sampleRate int, gain float64) (Backend, error) {
	return NewBeepPlayer(sampleRate, gain)
}

// Players tried in order when no player command is configured.
var defaultPlayerCommands = [][]string{
	{"mpg123", "-q"},
	{"cvlc", "--aout=alsa", "--play-and-exit", "--quiet"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
}

type ProbeOptions struct {
	Backend       string
	PlayerCommand []string
	StopTimeout   time.Duration
	SampleRate    int
	Gain          float64
}

// Probe selects the audio backend once at startup.
// backend "auto" prefers the in-process player and falls back to an external one.
func Probe(options ProbeOptions) Backend {
	if options.SampleRate == 0 {
		options.SampleRate = 44100
	}

	switch options.Backend {
	case "none":
		logrus.Warnf("Audio disabled by configuration")
		return NoBackend{}
	case "beep":
		if backend := probeBeep(options); backend != nil {
			return backend
		}
	case "process":
		if backend := probeProcess(options); backend != nil {
			return backend
		}
	default:
		if backend := probeBeep(options); backend != nil {
			return backend
		}
		if backend := probeProcess(options); backend != nil {
			return backend
		}
	}

	logrus.Warnf("!!! No usable audio backend found, tracks will be skipped !!!")
	return NoBackend{}
}

func probeBeep(options ProbeOptions) Backend {
	backend, err := newBeepPlayer(options.SampleRate, options.Gain)
	if err != nil {
		logrus.Infof("In-process audio unavailable: %v", err)
		return nil
	}
	logrus.Infof("Audio backend: in-process player")
	return backend
}

func probeProcess(options ProbeOptions) Backend {
	candidates := defaultPlayerCommands
	if len(options.PlayerCommand) > 0 {
		candidates = [][]string{options.PlayerCommand}
	}
	for _, command := range candidates {
		if _, err := lookPath(command[0]); err != nil {
			logrus.Debugf("%s not found: %v", command[0], err)
			continue
		}
		logrus.Infof("Audio backend: %s", command[0])
		return NewProcessPlayer(command, options.StopTimeout)
	}
	return nil
}
