package cli

import (
	"context"
	"github.com/jypelle/piradio/internal/srv"
	"github.com/jypelle/piradio/internal/srv/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
)

var withDisplay bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play the catalog forever",
	Long: `Fetch the catalog from the configured server, then play it in shuffled passes.
Send SIGUSR1 to skip the current track.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
		defer stop()

		serverApp, err := srv.NewServerApp(cfg)
		if err != nil {
			return err
		}

		skipSignal := make(chan os.Signal, 1)
		signal.Notify(skipSignal, syscall.SIGUSR1)
		defer signal.Stop(skipSignal)
		go func() {
			for {
				select {
				case <-skipSignal:
					logrus.Infof("Received skip signal")
					if !serverApp.Skip() {
						logrus.Infof("Nothing to skip")
					}
				case <-ctx.Done():
					return
				}
			}
		}()

		if !withDisplay {
			return serverApp.Run(ctx)
		}
		if displayModeOf(cfg) == config.DisplayModeTerminal {
			if err = detachTerminalLogging(cfg.GetCompleteLogFilename()); err != nil {
				return err
			}
		}

		supervisor := srv.NewSupervisor(displayCommand(), cfg.ClientParam.StopTimeout)
		return supervisor.Run(ctx, serverApp.Run)
	},
}

// displayCommand runs this same binary with the same config, in display mode.
func displayCommand() []string {
	executable, err := os.Executable()
	if err != nil {
		executable = os.Args[0]
	}
	command := []string{executable, "--config-dir", configDir}
	if debugMode {
		command = append(command, "--debug")
	}
	return append(command, "display")
}

func init() {
	runCmd.Flags().BoolVar(&withDisplay, "with-display", false, "also start the now playing display")
	rootCmd.AddCommand(runCmd)
}
