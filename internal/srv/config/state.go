package config

import (
	"fmt"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"os"
	"sync"
	"time"
)

var saveDelay = 10 * time.Second

// ServerState holds what the daemon changes at runtime and keeps across restarts.
type ServerState struct {
	serverStateConfig     ServerStateConfig
	lock                  sync.RWMutex
	backupTimer           *time.Timer
	completeStateFilename string
}

type ServerStateConfig struct {
	Volume      int64 `yaml:"volume"`
	PlayedCount int64 `yaml:"played_count"`
}

func NewServerState(completeStateFilename string) (*ServerState, error) {
	serverState := &ServerState{
		completeStateFilename: completeStateFilename,
	}

	rawConfig, err := os.ReadFile(completeStateFilename)
	if err == nil {
		err = yaml.Unmarshal(rawConfig, &serverState.serverStateConfig)
		if err != nil {
			return nil, fmt.Errorf("unable to interpret state file: %w", err)
		}
	} else {
		logrus.Infof("Create default state file")
		serverState.SetVolume(70)
	}

	return serverState, nil
}

func (ss *ServerState) Volume() int64 {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	return ss.serverStateConfig.Volume
}

// SetVolume clamps volume to [0,100] and returns the stored value.
func (ss *ServerState) SetVolume(volume int64) int64 {
	if volume > 100 {
		volume = 100
	}
	if volume < 0 {
		volume = 0
	}

	ss.lock.Lock()
	defer ss.lock.Unlock()

	ss.serverStateConfig.Volume = volume
	ss.scheduleSave()
	return volume
}

func (ss *ServerState) PlayedCount() int64 {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	return ss.serverStateConfig.PlayedCount
}

func (ss *ServerState) IncrementPlayedCount() {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	ss.serverStateConfig.PlayedCount++
	ss.scheduleSave()
}

func (ss *ServerState) scheduleSave() {
	if ss.backupTimer == nil {
		ss.backupTimer = time.AfterFunc(saveDelay, func() {
			ss.lock.Lock()
			defer ss.lock.Unlock()
			ss.save()
		})
	} else {
		ss.backupTimer.Reset(saveDelay)
	}
}

func (ss *ServerState) save() {
	logrus.Debugf("Save state file: %s", ss.completeStateFilename)
	rawConfig, err := yaml.Marshal(&ss.serverStateConfig)
	if err != nil {
		logrus.Errorf("Unable to serialize state file: %v", err)
		return
	}
	err = os.WriteFile(ss.completeStateFilename, rawConfig, 0660)
	if err != nil {
		logrus.Errorf("Unable to save state file: %v", err)
	}
}

func (ss *ServerState) FlushSave() {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	if ss.backupTimer != nil {
		if ss.backupTimer.Stop() {
			ss.save()
		}
	}
}
