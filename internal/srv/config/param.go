package config

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"time"
)

//go:embed param_default.yaml
var ParamDefaultFile []byte

type ServerParam struct {
	ClientParam  ClientParam  `yaml:"client"`
	CatalogParam CatalogParam `yaml:"catalog"`
	DisplayParam DisplayParam `yaml:"display"`
	ButtonsParam ButtonsParam `yaml:"buttons"`
	LogParam     LogParam     `yaml:"log"`
}

// ClientParam drives the playback daemon.
type ClientParam struct {
	ServerUrl       string        `yaml:"server_url"`
	CacheDir        string        `yaml:"cache_dir"`
	RetryDelay      time.Duration `yaml:"retry_delay"`
	PlayRetries     int           `yaml:"play_retries"`
	ReshuffleDelay  time.Duration `yaml:"reshuffle_delay"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	DownloadTimeout time.Duration `yaml:"download_timeout"`
	Backend         string        `yaml:"backend"`
	PlayerCommand   []string      `yaml:"player_command"`
	StopTimeout     time.Duration `yaml:"stop_timeout"`
	Gain            float64       `yaml:"gain"`
	MixerControl    string        `yaml:"mixer_control"`
	History         bool          `yaml:"history"`
}

type CatalogParam struct {
	MusicDir   string        `yaml:"music_dir"`
	ArtDir     string        `yaml:"art_dir"`
	TracksFile string        `yaml:"tracks_file"`
	Listen     string        `yaml:"listen"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`
	Ssl        bool          `yaml:"ssl"`
	PublicUrl  string        `yaml:"public_url"`
	SelectedBy string        `yaml:"selected_by"`
}

type DisplayParam struct {
	Mode         string        `yaml:"mode"`
	PollInterval time.Duration `yaml:"poll_interval"`
	ScrollStep   int           `yaml:"scroll_step"`
}

// ButtonsParam maps actions to GPIO pin names, an empty name disables the button.
type ButtonsParam struct {
	Next       string `yaml:"next"`
	VolumeUp   string `yaml:"volume_up"`
	VolumeDown string `yaml:"volume_down"`
	VolumeStep int64  `yaml:"volume_step"`
}

type LogParam struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

const (
	BackendAuto    = "auto"
	BackendBeep    = "beep"
	BackendProcess = "process"
	BackendNone    = "none"

	DisplayModeTerminal = "terminal"
	DisplayModeOled     = "oled"
)

func (p *ServerParam) Validate() error {
	var errs []error

	serverUrl, err := url.Parse(p.ClientParam.ServerUrl)
	if err != nil || (serverUrl.Scheme != "http" && serverUrl.Scheme != "https") || serverUrl.Host == "" {
		errs = append(errs, fmt.Errorf("client.server_url must be an http(s) url, got %q", p.ClientParam.ServerUrl))
	}
	if p.ClientParam.CacheDir == "" {
		errs = append(errs, errors.New("client.cache_dir is required"))
	}
	if p.ClientParam.RetryDelay < 0 || p.ClientParam.ReshuffleDelay < 0 {
		errs = append(errs, errors.New("client delays can't be negative"))
	}
	if p.ClientParam.PlayRetries < 0 {
		errs = append(errs, errors.New("client.play_retries can't be negative"))
	}
	if p.ClientParam.RequestTimeout <= 0 || p.ClientParam.DownloadTimeout <= 0 || p.ClientParam.StopTimeout <= 0 {
		errs = append(errs, errors.New("client timeouts must be positive"))
	}
	switch p.ClientParam.Backend {
	case BackendAuto, BackendBeep, BackendProcess, BackendNone:
	default:
		errs = append(errs, fmt.Errorf("client.backend must be one of auto, beep, process, none, got %q", p.ClientParam.Backend))
	}
	if p.CatalogParam.CacheTTL < 0 {
		errs = append(errs, errors.New("catalog.cache_ttl can't be negative"))
	}
	if p.CatalogParam.PublicUrl != "" {
		if _, err := url.Parse(p.CatalogParam.PublicUrl); err != nil {
			errs = append(errs, fmt.Errorf("catalog.public_url: %w", err))
		}
	}
	switch p.DisplayParam.Mode {
	case DisplayModeTerminal, DisplayModeOled:
	default:
		errs = append(errs, fmt.Errorf("display.mode must be terminal or oled, got %q", p.DisplayParam.Mode))
	}
	if p.DisplayParam.PollInterval <= 0 {
		errs = append(errs, errors.New("display.poll_interval must be positive"))
	}
	if p.ButtonsParam.VolumeStep < 0 || p.ButtonsParam.VolumeStep > 100 {
		errs = append(errs, errors.New("buttons.volume_step must be between 0 and 100"))
	}

	return errors.Join(errs...)
}
