package cli

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hubsync/internal/client/hubspot"
	"hubsync/internal/db"
	"hubsync/internal/logger"
	gormrepository "hubsync/internal/repository/gorm"
	"hubsync/internal/service"
)

func newRunCmd() *cobra.Command {
	var (
		objectTypes []string
		maxPages    int
		full        bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one export cycle",
		Long: "Run syncs each configured object type in order. A type that fails is\n" +
			"recorded and skipped past so the remaining types still sync; the exit\n" +
			"status is non-zero when any type failed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}
			defer log.Sync()

			dbConn, err := db.Open(cfg.DB)
			if err != nil {
				log.Error("db open failed", zap.Error(err))
				return err
			}
			defer db.Close(dbConn)

			if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
				log.Warn("failed to set timezone", zap.Error(err))
			}
			if err := db.AutoMigrate(dbConn); err != nil {
				log.Error("auto-migrate failed", zap.Error(err))
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			httpClient := &http.Client{Timeout: cfg.HubSpot.Timeout}
			api := hubspot.NewClient(httpClient, cfg.HubSpot.BaseURL, cfg.HubSpot.Token)
			store := gormrepository.New(dbConn.Gorm)

			svc := &service.SyncService{
				Store: store,
				Fetcher: &service.PageFetcher{
					Client:         api,
					Logger:         log,
					MaxAttempts:    cfg.Retry.MaxAttempts,
					InitialBackoff: cfg.Retry.InitialBackoff,
					MaxBackoff:     cfg.Retry.MaxBackoff,
				},
				Properties: api,
				Logger:     log,
			}

			opts := service.SyncOptions{
				ObjectTypes:        cfg.Sync.ObjectTypes,
				PageLimit:          cfg.Sync.PageLimit,
				MaxPages:           cfg.Sync.MaxPages,
				Full:               full,
				InitialLookback:    cfg.Sync.InitialLookback,
				DiscoverProperties: cfg.Sync.DiscoverProperties,
				Properties:         cfg.Sync.Properties,
			}
			if len(objectTypes) > 0 {
				opts.ObjectTypes = objectTypes
			}
			if cmd.Flags().Changed("max-pages") {
				opts.MaxPages = maxPages
			}

			report, err := svc.Run(ctx, opts)
			printReport(cmd, report)
			return err
		},
	}
	cmd.Flags().StringSliceVar(&objectTypes, "object-types", nil, "object types to sync (default: from config)")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "page cap per object type (0 = no cap)")
	cmd.Flags().BoolVar(&full, "full", false, "ignore stored checkpoints and export everything")
	return cmd
}

func printReport(cmd *cobra.Command, report *service.RunReport) {
	if report == nil {
		return
	}
	for _, res := range report.Results {
		line := fmt.Sprintf("%-10s %-9s pages=%d records=%d retries=%d",
			res.ObjectType, res.Status, res.Pages, res.Records, res.Retries)
		if res.Watermark != nil {
			line += " watermark=" + res.Watermark.Format(time.RFC3339)
		}
		if res.Err != nil {
			line += " error=" + res.Err.Error()
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
}
