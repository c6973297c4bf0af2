package cli

import (
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/jypelle/piradio/internal/srv/history"
	"github.com/spf13/cobra"
	"text/tabwriter"
	"time"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the latest played and skipped tracks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(cfg.GetCompleteHistoryFilename())
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Recent(historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No history yet")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tOUTCOME\tTITLE\tSELECTED BY\tREASON")
		now := time.Now()
		for _, entry := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				humanize.RelTime(entry.StartedAt, now, "ago", "from now"),
				entry.Outcome,
				entry.Title,
				entry.SelectedBy,
				entry.Reason,
			)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "number", "n", 20, "number of entries")
	rootCmd.AddCommand(historyCmd)
}
