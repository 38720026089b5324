// Package main is the entry point for docxctl, a command-line companion to
// the API server. It runs the same conversion pipeline against local files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Shimizu-Technology/pdf-docx-api/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// newRootCmd builds the command tree. Tests build a fresh tree per run.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "docxctl",
		Short: "Convert PDF files to Word documents",
		Long: `docxctl converts PDF files to DOCX using the same backends, tolerances
and filename rules as the API server. Settings come from the environment
(and a .env file), and can be overridden per run with flags.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newConvertCmd(), newInspectCmd(), newSweepCmd())
	return root
}

// loadConfig reads the environment, then lets the caller apply flag
// overrides before validation.
func loadConfig(override func(*config.Config)) (*config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
