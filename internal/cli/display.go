package cli

import (
	"github.com/jypelle/piradio/internal/srv"
	"github.com/jypelle/piradio/internal/srv/config"
	"github.com/jypelle/piradio/internal/tui"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
)

var displayMode string

var displayCmd = &cobra.Command{
	Use:   "display",
	Short: "Show the track being played",
	Long:  `Watch the now playing file of the cache folder and show it in the terminal or on the OLED screen.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
		defer stop()

		if displayModeOf(cfg) == config.DisplayModeOled {
			displayApp, err := srv.NewDisplayApp(cfg)
			if err != nil {
				return err
			}
			return displayApp.Run(ctx)
		}
		if err := detachTerminalLogging(cfg.GetCompleteDisplayLogFilename()); err != nil {
			return err
		}
		return tui.Run(ctx, cfg.GetCompleteNowPlayingFilename(), cfg.DisplayParam.PollInterval)
	},
}

func displayModeOf(serverConfig *config.ServerConfig) string {
	if displayMode != "" {
		return displayMode
	}
	return serverConfig.DisplayParam.Mode
}

func init() {
	displayCmd.Flags().StringVar(&displayMode, "mode", "", "terminal or oled (default from param file)")
	rootCmd.AddCommand(displayCmd)
}
