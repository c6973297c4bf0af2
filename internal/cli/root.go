package cli

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/jypelle/piradio/internal/srv/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"io"
	"io/fs"
	"os"
)

var (
	configDir string
	debugMode bool

	cfg       *config.ServerConfig
	logCloser io.Closer

	configureLogging = config.ConfigureLogging
)

var rootCmd = &cobra.Command{
	Use:   "piradio",
	Short: "A shuffling internet radio for the Raspberry Pi",
	Long:  `Piradio plays a remote music catalog forever in shuffled order and publishes what is playing for displays.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config-dir", "c", config.DefaultConfigDir(), "location of piradio config folder")
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "enable debug mode")
}

func initConfig() error {
	logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.Warnf("Unable to load .env file: %v", err)
	}

	var err error
	cfg, err = config.NewServerConfig(configDir, debugMode)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logCloser, err = configureLogging(debugMode, cfg.LogParam)
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	return nil
}

// detachTerminalLogging moves the logs to a file while a terminal display owns the screen.
func detachTerminalLogging(defaultFile string) error {
	filename := cfg.LogParam.File
	if filename == "" {
		filename = defaultFile
	}
	logrus.Infof("Logs written to %s while the display runs", filename)

	closeLog()
	closer, err := config.DetachLogging(cfg.LogParam, defaultFile)
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	logCloser = closer
	return nil
}

func closeLog() {
	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}
}

// Execute runs the root command.
func Execute() {
	if err := executeRoot(); err != nil {
		os.Exit(1)
	}
}

// executeRoot releases the log file whatever the outcome, cobra skips post run hooks on errors.
func executeRoot() error {
	defer closeLog()
	return rootCmd.Execute()
}
