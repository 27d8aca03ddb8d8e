package main

import (
	"fmt"

	"github.com/sandeepkv93/daybook/internal/storage"
	"github.com/spf13/cobra"
)

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently presented reminder notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(opts, false, noFrontEnd)
			if err != nil {
				return err
			}
			defer a.Close()

			items, err := a.repo.ListNotifications(cmd.Context(), storage.NotificationLogFilter{Limit: limit})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No notifications yet.")
				return nil
			}
			for _, item := range items {
				action := item.Action
				if action == "" {
					action = "-"
				}
				fmt.Fprintf(out, "%s  %s %s  %-7s %s\n",
					item.PresentedAt.Local().Format("2006-01-02 15:04"),
					item.ReminderDate, item.ReminderTime, action, item.Body)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries to show")
	return cmd
}
