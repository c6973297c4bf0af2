package config

import (
	"fmt"
	"github.com/adrg/xdg"
	"github.com/jypelle/piradio/internal/tool"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
)

const appName = "piradio"
const paramFilename = "param.yaml"
const stateFilename = "state.yaml"
const nowPlayingFilename = "now_playing.json"
const historyFilename = "history.db"
const logFilename = "piradio.log"
const displayLogFilename = "display.log"

type ServerConfig struct {
	ConfigDir string
	DebugMode bool

	*ServerParam
	*ServerState
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/piradio.
func DefaultConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

func NewServerConfig(configDir string, debugMode bool) (*ServerConfig, error) {
	serverConfig := &ServerConfig{
		ConfigDir: configDir,
		DebugMode: debugMode,
	}

	// Check Configuration folder
	_, err := os.Stat(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Infof("Creation of config folder: %s", configDir)
			err = os.MkdirAll(configDir, 0770)
			if err != nil {
				return nil, fmt.Errorf("unable to create config folder: %w", err)
			}
		} else {
			return nil, fmt.Errorf("unable to access config folder %s: %w", configDir, err)
		}
	}

	// Defaults first, so that keys missing from an older param file keep a sane value
	serverConfig.ServerParam = &ServerParam{}
	err = yaml.Unmarshal(ParamDefaultFile, serverConfig.ServerParam)
	if err != nil {
		return nil, fmt.Errorf("unable to interpret default param file: %w", err)
	}

	// Open param file
	rawConfig, err := os.ReadFile(serverConfig.GetCompleteParamFilename())
	if err == nil {
		err = yaml.Unmarshal(rawConfig, serverConfig.ServerParam)
		if err != nil {
			return nil, fmt.Errorf("unable to interpret param file: %w", err)
		}
	} else if os.IsNotExist(err) {
		logrus.Infof("Create default param file")
		if err = serverConfig.SaveParam(); err != nil {
			return nil, err
		}
	} else {
		return nil, fmt.Errorf("unable to read param file: %w", err)
	}

	serverConfig.applyEnv()
	serverConfig.ClientParam.CacheDir = tool.ExpandPath(serverConfig.ClientParam.CacheDir)
	serverConfig.CatalogParam.MusicDir = tool.ExpandPath(serverConfig.CatalogParam.MusicDir)
	serverConfig.CatalogParam.ArtDir = tool.ExpandPath(serverConfig.CatalogParam.ArtDir)
	serverConfig.LogParam.File = tool.ExpandPath(serverConfig.LogParam.File)

	if err = serverConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid param file %s: %w", serverConfig.GetCompleteParamFilename(), err)
	}

	// Open state file
	serverConfig.ServerState, err = NewServerState(serverConfig.GetCompleteStateFilename())
	if err != nil {
		return nil, err
	}

	return serverConfig, nil
}

// applyEnv lets the environment (and a .env file loaded beforehand) override the param file.
func (sc *ServerConfig) applyEnv() {
	overrides := []struct {
		name   string
		target *string
	}{
		{"RADIO_SERVER_URL", &sc.ClientParam.ServerUrl},
		{"RADIO_CACHE_DIR", &sc.ClientParam.CacheDir},
		{"RADIO_BACKEND", &sc.ClientParam.Backend},
		{"RADIO_MUSIC_DIR", &sc.CatalogParam.MusicDir},
		{"RADIO_ART_DIR", &sc.CatalogParam.ArtDir},
		{"RADIO_LISTEN", &sc.CatalogParam.Listen},
		{"RADIO_DISPLAY_MODE", &sc.DisplayParam.Mode},
		{"RADIO_LOG_LEVEL", &sc.LogParam.Level},
		{"RADIO_LOG_FILE", &sc.LogParam.File},
	}
	for _, override := range overrides {
		if value, ok := os.LookupEnv(override.name); ok && value != "" {
			logrus.Debugf("Param overridden by %s", override.name)
			*override.target = value
		}
	}
}

func (sc *ServerConfig) GetCompleteParamFilename() string {
	return filepath.Join(sc.ConfigDir, paramFilename)
}

func (sc *ServerConfig) GetCompleteStateFilename() string {
	return filepath.Join(sc.ConfigDir, stateFilename)
}

func (sc *ServerConfig) GetCompleteNowPlayingFilename() string {
	return filepath.Join(sc.ClientParam.CacheDir, nowPlayingFilename)
}

func (sc *ServerConfig) GetCompleteHistoryFilename() string {
	return filepath.Join(sc.ClientParam.CacheDir, historyFilename)
}

func (sc *ServerConfig) GetCompleteLogFilename() string {
	return filepath.Join(sc.ClientParam.CacheDir, logFilename)
}

func (sc *ServerConfig) GetCompleteDisplayLogFilename() string {
	return filepath.Join(sc.ClientParam.CacheDir, displayLogFilename)
}

func (sc *ServerConfig) GetCompleteKeyFilename() string {
	return filepath.Join(sc.ConfigDir, "key.pem")
}

func (sc *ServerConfig) GetCompleteCertFilename() string {
	return filepath.Join(sc.ConfigDir, "cert.pem")
}

func (sc *ServerConfig) SaveParam() error {
	logrus.Debugf("Save param file: %s", sc.GetCompleteParamFilename())
	rawConfig, err := yaml.Marshal(*sc.ServerParam)
	if err != nil {
		return fmt.Errorf("unable to serialize param file: %w", err)
	}
	err = os.WriteFile(sc.GetCompleteParamFilename(), rawConfig, 0660)
	if err != nil {
		return fmt.Errorf("unable to save param file: %w", err)
	}
	return nil
}
