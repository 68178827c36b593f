package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// newRootCmd creates the root command and its subcommands.
func newRootCmd() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:   "sheetbridge",
		Short: "Bridge spreadsheets of URLs to a remote crawl task service.",
		Long: `sheetbridge accepts an uploaded workbook of URLs, submits it as a job to
the task service, proxies job status, and renders finished results back
into a downloadable workbook.`,
		SilenceUsage: true,
		// .env values become BRIDGE_* overrides before config is loaded.
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadEnvFile(envFile)
		},
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading config")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newTemplateCmd())
	return cmd
}

// loadEnvFile loads path when it exists. Variables already set in the
// environment win.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
