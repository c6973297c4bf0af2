package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerConfig_CreatesDefaultParamFile(t *testing.T) {
	t.Setenv("RADIO_SERVER_URL", "")
	t.Setenv("RADIO_CACHE_DIR", "")
	configDir := filepath.Join(t.TempDir(), "piradio")

	sc, err := NewServerConfig(configDir, false)
	require.NoError(t, err)

	_, err = os.Stat(sc.GetCompleteParamFilename())
	require.NoError(t, err, "default param file must be written")

	assert.Equal(t, "http://localhost:5000", sc.ClientParam.ServerUrl)
	assert.Equal(t, time.Second, sc.ClientParam.RetryDelay)
	assert.Equal(t, 5*time.Second, sc.ClientParam.RequestTimeout)
	assert.Equal(t, 30*time.Second, sc.ClientParam.DownloadTimeout)
	assert.Equal(t, BackendAuto, sc.ClientParam.Backend)
	assert.Equal(t, 3*time.Second, sc.CatalogParam.CacheTTL)
	assert.Equal(t, 50*time.Millisecond, sc.DisplayParam.PollInterval)
	assert.NotContains(t, sc.ClientParam.CacheDir, "~")
	assert.Equal(t, filepath.Join(sc.ClientParam.CacheDir, "now_playing.json"), sc.GetCompleteNowPlayingFilename())
}

func TestNewServerConfig_ReadsParamFileOverDefaults(t *testing.T) {
	t.Setenv("RADIO_SERVER_URL", "")
	configDir := t.TempDir()
	cacheDir := t.TempDir()
	param := "client:\n  server_url: http://radio.local:8000\n  cache_dir: " + cacheDir + "\n  retry_delay: 250ms\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "param.yaml"), []byte(param), 0o600))

	sc, err := NewServerConfig(configDir, false)
	require.NoError(t, err)

	assert.Equal(t, "http://radio.local:8000", sc.ClientParam.ServerUrl)
	assert.Equal(t, cacheDir, sc.ClientParam.CacheDir)
	assert.Equal(t, 250*time.Millisecond, sc.ClientParam.RetryDelay)
	// keys absent from the file keep their default
	assert.Equal(t, 30*time.Second, sc.ClientParam.DownloadTimeout)
	assert.Equal(t, "music", sc.CatalogParam.MusicDir)
}

func TestNewServerConfig_EnvOverride(t *testing.T) {
	t.Setenv("RADIO_SERVER_URL", "https://override.example:9000")
	cacheDir := t.TempDir()
	t.Setenv("RADIO_CACHE_DIR", cacheDir)

	sc, err := NewServerConfig(t.TempDir(), false)
	require.NoError(t, err)

	assert.Equal(t, "https://override.example:9000", sc.ClientParam.ServerUrl)
	assert.Equal(t, cacheDir, sc.ClientParam.CacheDir)
}

func TestNewServerConfig_RejectsInvalidParam(t *testing.T) {
	t.Setenv("RADIO_SERVER_URL", "")
	configDir := t.TempDir()
	param := "client:\n  server_url: not a url\n  backend: jukebox\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "param.yaml"), []byte(param), 0o600))

	_, err := NewServerConfig(configDir, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server_url")
	assert.Contains(t, err.Error(), "backend")
}

func TestValidate(t *testing.T) {
	valid := func() ServerParam {
		return ServerParam{
			ClientParam: ClientParam{
				ServerUrl:       "http://localhost:5000",
				CacheDir:        "/tmp/cache",
				RetryDelay:      time.Second,
				RequestTimeout:  time.Second,
				DownloadTimeout: time.Second,
				StopTimeout:     time.Second,
				Backend:         BackendAuto,
			},
			DisplayParam: DisplayParam{Mode: DisplayModeTerminal, PollInterval: time.Millisecond},
		}
	}

	tests := []struct {
		name    string
		mutate  func(p *ServerParam)
		wantErr bool
	}{
		{"valid", func(p *ServerParam) {}, false},
		{"negative retry delay", func(p *ServerParam) { p.ClientParam.RetryDelay = -time.Second }, true},
		{"negative retries", func(p *ServerParam) { p.ClientParam.PlayRetries = -1 }, true},
		{"no cache dir", func(p *ServerParam) { p.ClientParam.CacheDir = "" }, true},
		{"zero download timeout", func(p *ServerParam) { p.ClientParam.DownloadTimeout = 0 }, true},
		{"unknown display", func(p *ServerParam) { p.DisplayParam.Mode = "lcd" }, true},
		{"oled display", func(p *ServerParam) { p.DisplayParam.Mode = DisplayModeOled }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestServerState(t *testing.T) {
	saveDelay = time.Hour
	defer func() { saveDelay = 10 * time.Second }()

	filename := filepath.Join(t.TempDir(), "state.yaml")
	state, err := NewServerState(filename)
	require.NoError(t, err)
	assert.Equal(t, int64(70), state.Volume())

	assert.Equal(t, int64(100), state.SetVolume(140))
	assert.Equal(t, int64(0), state.SetVolume(-3))
	state.SetVolume(42)
	state.IncrementPlayedCount()
	state.IncrementPlayedCount()
	state.FlushSave()

	reloaded, err := NewServerState(filename)
	require.NoError(t, err)
	assert.Equal(t, int64(42), reloaded.Volume())
	assert.Equal(t, int64(2), reloaded.PlayedCount())
}

func TestConfigureLogging(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)
	defer logrus.SetLevel(logrus.InfoLevel)

	logFile := filepath.Join(t.TempDir(), "piradio.log")
	closer, err := ConfigureLogging(false, LogParam{Level: "warn", File: logFile, MaxSizeMB: 1})
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())

	logrus.Warn("written to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")

	_, err = ConfigureLogging(false, LogParam{Level: "loud"})
	assert.Error(t, err)
}

func TestDetachLogging(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)
	defer logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	defaultFile := filepath.Join(t.TempDir(), "cache", "piradio.log")
	closer, err := DetachLogging(LogParam{MaxSizeMB: 1}, defaultFile)
	require.NoError(t, err)
	assert.NotEqual(t, os.Stderr, logrus.StandardLogger().Out)

	logrus.Info("kept off the terminal")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(defaultFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kept off the terminal")

	configured := filepath.Join(t.TempDir(), "configured.log")
	closer, err = DetachLogging(LogParam{File: configured, MaxSizeMB: 1}, defaultFile)
	require.NoError(t, err)
	logrus.Info("to the configured file")
	require.NoError(t, closer.Close())

	data, err = os.ReadFile(configured)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to the configured file")
}
