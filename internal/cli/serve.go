package cli

import (
	"context"
	"github.com/jypelle/piradio/internal/srv/catalog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the music folder as a catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
		defer stop()

		catalogParam := cfg.CatalogParam
		api := catalog.NewApi(
			catalog.NewCatalog(newScanner(), catalogParam.CacheTTL),
			catalog.ApiParam{
				Listen:       catalogParam.Listen,
				MusicDir:     catalogParam.MusicDir,
				ArtDir:       catalogParam.ArtDir,
				Ssl:          catalogParam.Ssl,
				KeyFilename:  cfg.GetCompleteKeyFilename(),
				CertFilename: cfg.GetCompleteCertFilename(),
			},
		)
		if err := api.Start(); err != nil {
			return err
		}

		<-ctx.Done()
		logrus.Infof("Received stop signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return api.Stop(shutdownCtx)
	},
}

func newScanner() *catalog.Scanner {
	return &catalog.Scanner{
		MusicDir:   cfg.CatalogParam.MusicDir,
		ArtDir:     cfg.CatalogParam.ArtDir,
		PublicUrl:  cfg.CatalogParam.PublicUrl,
		SelectedBy: cfg.CatalogParam.SelectedBy,
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
