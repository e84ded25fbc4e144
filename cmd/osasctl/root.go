package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"osas-connect/config"
	applogger "osas-connect/pkg/logger"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "osasctl",
		Short:         "OSAS Connect maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv("OSAS_CONFIG"),
		"path to config.yaml (default: ./config.yaml, ./config/config.yaml)")

	cmd.AddCommand(
		newServeWorkerCmd(opts),
		newRemindersCmd(opts),
		newMigrateCmd(opts),
	)
	return cmd
}

// load reads config and builds the logger shared by every subcommand
func (o *rootOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}
