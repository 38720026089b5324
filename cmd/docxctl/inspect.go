package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Shimizu-Technology/pdf-docx-api/internal/services/converter"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/storage"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.pdf>...",
		Short: "Report page count and the DOCX name a PDF would convert to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, path := range args {
				info, err := converter.Inspect(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				name := storage.SanitizeFilename(filepath.Base(path))
				fmt.Fprintf(out, "%s\tpages=%d\tsize=%d\tdocx=%s\n", path, info.PageCount, info.Size, storage.TargetName(name))
			}
			return nil
		},
	}
}
