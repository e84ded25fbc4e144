package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"osas-connect/internal/app"
	"osas-connect/internal/scheduler"
)

func newRemindersCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Send reminder emails once, outside the daily schedule",
	}
	cmd.AddCommand(
		newReminderRunCmd(root, "interviews", "Remind students of interviews in the next 24 hours", scheduler.JobInterviewReminders),
		newReminderRunCmd(root, "renewals", "Remind scholars whose renewal deadline is near", scheduler.JobRenewalReminders),
	)
	return cmd
}

func newReminderRunCmd(root *rootOptions, use, short, job string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			a, err := app.New(cfg, logger, app.Options{SkipMigrations: true})
			if err != nil {
				return err
			}
			// Close flushes inline mail before exit
			defer a.Close()

			sched, err := scheduler.New(&cfg.Scheduler, a.Service.Reminder, logger)
			if err != nil {
				return err
			}

			sent, err := sched.RunNow(cmd.Context(), job)
			if err != nil {
				logger.Error("reminder run failed", zap.String("job", job), zap.Error(err))
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d reminder(s) queued\n", use, sent)
			return nil
		},
	}
}
