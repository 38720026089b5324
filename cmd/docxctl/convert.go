package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Shimizu-Technology/pdf-docx-api/internal/config"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/metrics"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/services/conversion"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/services/converter"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/storage"
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <file.pdf>...",
		Short: "Convert one or more PDF files to DOCX",
		Long: `Convert runs each PDF through the configured backend and writes the
result to the output directory, named after the sanitized input name with a
.docx extension. An existing file of the same name is replaced.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runConvert,
	}

	cmd.Flags().StringP("out", "o", "", "output directory (default: CONVERTED_DIR)")
	cmd.Flags().String("backend", "", "converter backend: pdf2docx or native (default: CONVERTER_BACKEND)")
	cmd.Flags().Float64("x-tolerance", 0, "horizontal merge tolerance (default: X_TOLERANCE)")
	cmd.Flags().Float64("y-tolerance", 0, "vertical merge tolerance (default: Y_TOLERANCE)")
	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(func(cfg *config.Config) {
		if out, _ := cmd.Flags().GetString("out"); out != "" {
			cfg.ConvertedDir = out
		}
		if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
			cfg.ConverterBackend = backend
		}
		if x, _ := cmd.Flags().GetFloat64("x-tolerance"); x > 0 {
			cfg.XTolerance = x
		}
		if y, _ := cmd.Flags().GetFloat64("y-tolerance"); y > 0 {
			cfg.YTolerance = y
		}
	})
	if err != nil {
		return err
	}

	conv, err := converter.New(cfg.ConverterBackend, cfg.Pdf2DocxPath)
	if err != nil {
		return err
	}

	// Inputs are copied into a scratch directory, the way uploads land in
	// UPLOAD_DIR, so the originals are never touched.
	scratch, err := os.MkdirTemp("", "docxctl-*")
	if err != nil {
		return fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	dirs, err := storage.New(scratch, cfg.ConvertedDir)
	if err != nil {
		return err
	}
	svc := conversion.NewService(dirs, conv, metrics.New(prometheus.NewRegistry()), conversion.SettingsFromConfig(cfg))

	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		if err := convertOne(cmd, svc, path); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", path, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed to convert", failed, len(args))
	}
	fmt.Fprintf(out, "Converted %d file(s) into %s\n", len(args), dirs.Outgoing)
	return nil
}

func convertOne(cmd *cobra.Command, svc *conversion.Service, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	job, err := svc.Convert(cmd.Context(), filepath.Base(path), f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s → %s (%d pages)\n", path, job.TargetPath, job.PageCount)
	return nil
}
