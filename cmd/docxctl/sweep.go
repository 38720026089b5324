package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Shimizu-Technology/pdf-docx-api/internal/config"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/metrics"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/services/retention"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/storage"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete converted files older than a retention window",
		Long: `Sweep runs one retention pass over the converted directory, the same
pass the server runs periodically when CONVERTED_RETENTION is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			olderThan, _ := cmd.Flags().GetDuration("older-than")
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := loadConfig(func(cfg *config.Config) {
				if dir != "" {
					cfg.ConvertedDir = dir
				}
				// Sweeping never converts; don't fail on a missing pdf2docx.
				cfg.ConverterBackend = config.BackendNative
			})
			if err != nil {
				return err
			}
			if olderThan <= 0 {
				olderThan = cfg.ConvertedRetention
			}
			if olderThan <= 0 {
				return fmt.Errorf("no retention window: pass --older-than or set CONVERTED_RETENTION")
			}

			dirs, err := storage.New(cfg.UploadDir, cfg.ConvertedDir)
			if err != nil {
				return err
			}
			s := retention.NewSweeper(dirs, olderThan, time.Minute, metrics.New(prometheus.NewRegistry()))
			n := s.SweepOnce()
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d file(s) older than %s from %s\n", n, olderThan, dirs.Outgoing)
			return nil
		},
	}

	cmd.Flags().Duration("older-than", 0, "retention window (default: CONVERTED_RETENTION)")
	cmd.Flags().String("dir", "", "converted directory (default: CONVERTED_DIR)")
	return cmd
}
