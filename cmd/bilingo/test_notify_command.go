package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bilingo/internal/notifications"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification to the configured ntfy topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if cfg.Notify.NtfyTopic == "" {
				fmt.Fprintln(out, "Notification not sent: notify.ntfy_topic is not set")
				return nil
			}
			if err := notifications.NewService(cfg.Notify).Publish(cmd.Context(), notifications.EventTest, nil); err != nil {
				return err
			}
			fmt.Fprintln(out, "Test notification sent")
			return nil
		},
	}
}
