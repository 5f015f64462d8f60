package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/minhyannv/persona-chat/pkg/retention"
)

func newPruneCmd(a *app) *cobra.Command {
	var (
		dir     string
		days    int
		minutes int
	)
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete conversation logs older than the retention threshold",
		Long: `Deletes log files directly under the log directory whose modification time
is older than the threshold. --minutes wins over --days when positive; with
neither set, the configured retention applies, falling back to 7 days.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lc := a.config.Logging
			if !cmd.Flags().Changed("dir") {
				dir = lc.Directory
			}
			if !cmd.Flags().Changed("days") {
				days = lc.RetentionDays
			}
			if !cmd.Flags().Changed("minutes") {
				minutes = lc.RetentionMinutes
			}

			threshold := retention.Threshold(time.Now(), minutes, days)
			res, err := retention.Prune(dir, a.logExt(), threshold)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.DirMissing {
				_, _ = fmt.Fprintf(out, "Log directory %s does not exist; nothing to prune.\n", dir)
				return nil
			}
			for _, f := range res.Failures {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", f.Path, f.Err)
			}
			_, _ = fmt.Fprintf(out, "Pruned %s (older than %s): %s.\n", dir, threshold.Format(time.RFC3339), res)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Log directory (default from config)")
	cmd.Flags().IntVar(&days, "days", 0, "Delete logs older than this many days")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Delete logs older than this many minutes; wins over --days")
	return cmd
}
