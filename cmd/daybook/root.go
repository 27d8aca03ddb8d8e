package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "daybook",
		Short:         "Terminal diary with reminder notifications",
		Long:          "daybook shows diary entries, notes, reminders and todos from a daybook server and notifies you when reminders are due.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default ./daybook.yaml or the user config dir)")

	root.AddCommand(newTUICommand(opts))
	root.AddCommand(newWatchCommand(opts))
	root.AddCommand(newDayCommand(opts))
	root.AddCommand(newMonthCommand(opts))
	root.AddCommand(newSettingsCommand(opts))
	root.AddCommand(newHistoryCommand(opts))
	return root
}
