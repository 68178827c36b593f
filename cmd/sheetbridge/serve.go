package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/sheetbridge/internal/app"
	"github.com/JakeFAU/sheetbridge/internal/config"
	"github.com/JakeFAU/sheetbridge/internal/logging"
)

func newServeCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config failed: %w", err)
			}
			logger, err := logging.New(cfg.Logging)
			if err != nil {
				return fmt.Errorf("logger init failed: %w", err)
			}
			zap.ReplaceGlobals(logger)

			application, err := app.Build(cmd.Context(), cfg, logger)
			if err != nil {
				logger.Error("application build failed", zap.Error(err))
				return err
			}
			return application.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to config file (yaml, json, or toml)")
	return cmd
}
