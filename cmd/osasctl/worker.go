package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"osas-connect/internal/app"
)

func newServeWorkerCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve-worker",
		Short: "Consume the Redis mail queue until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			a, err := app.New(cfg, logger, app.Options{SkipMigrations: true, RequireRedis: true})
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err = a.Worker().Run(ctx)
			if err != nil && ctx.Err() == nil {
				logger.Error("worker exited", zap.Error(err))
				return err
			}
			return nil
		},
	}
}
