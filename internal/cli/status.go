package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"hubsync/internal/db"
	gormrepository "hubsync/internal/repository/gorm"
)

func newStatusCmd() *cobra.Command {
	var runsLimit int
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show per-type checkpoints and recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dbConn, err := db.Open(cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close(dbConn)
			if err := db.Ping(dbConn); err != nil {
				return err
			}

			store := gormrepository.New(dbConn.Gorm)
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			states, err := store.ListSyncStates(ctx)
			if err != nil {
				return err
			}
			if len(states) == 0 {
				fmt.Fprintln(out, "no sync state recorded yet")
			}
			for _, state := range states {
				count, err := store.CountRecords(ctx, state.ObjectType)
				if err != nil {
					return err
				}
				line := fmt.Sprintf("%-10s rows=%d", state.ObjectType, count)
				if state.LastSyncTime != nil {
					line += " watermark=" + state.LastSyncTime.Format(time.RFC3339)
				} else {
					line += " watermark=none"
				}
				if state.LastSuccessAt != nil {
					line += " last_success=" + state.LastSuccessAt.Format(time.RFC3339)
				}
				if state.LastError != nil {
					line += " last_error=" + *state.LastError
				}
				fmt.Fprintln(out, line)
			}

			runs, err := store.ListSyncRuns(ctx, runsLimit)
			if err != nil {
				return err
			}
			for _, run := range runs {
				line := fmt.Sprintf("run %s %-9s started=%s",
					run.ID, run.Status, run.StartedAt.Format(time.RFC3339))
				if run.FinishedAt != nil {
					line += " elapsed=" + run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&runsLimit, "runs", 5, "number of recent runs to show")
	return cmd
}
