package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sandeepkv93/daybook/internal/config"
	"github.com/sandeepkv93/daybook/internal/logger"
	"github.com/sandeepkv93/daybook/internal/notify"
	"github.com/sandeepkv93/daybook/internal/settings"
	"github.com/sandeepkv93/daybook/internal/views"
	"github.com/spf13/cobra"
)

func newSettingsCommand(opts *rootOptions) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change notification settings",
	}

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current notification settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(opts, false, noFrontEnd)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()
			prefs, err := a.controller.Preferences(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), views.RenderSettings(views.SettingsData{
				NotificationsEnabled: prefs.NotificationsEnabled,
				SoundEnabled:         prefs.SoundEnabled,
				SnoozeMinutes:        prefs.SnoozeMinutes,
				Permission:           string(a.controller.PermissionStatus(ctx)),
			}))
			return nil
		},
	})

	settingsCmd.AddCommand(&cobra.Command{
		Use:       "notifications on|off",
		Short:     "Enable or disable reminder notifications",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := settings.ParseToggle(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			a, err := bootstrap(opts, false, func(cfg *config.Config, log *logger.Logger) frontEnd {
				return frontEnd{prompter: notify.NewStdinPrompter(os.Stdin, out)}
			})
			if err != nil {
				return err
			}
			defer a.Close()
			outcome, err := a.controller.SetNotificationsEnabled(cmd.Context(), enabled)
			if outcome.Message != "" {
				fmt.Fprintln(out, outcome.Message)
			}
			return err
		},
	})

	settingsCmd.AddCommand(&cobra.Command{
		Use:       "sound on|off",
		Short:     "Enable or disable the notification sound",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := settings.ParseToggle(args[0])
			if err != nil {
				return err
			}
			a, err := bootstrap(opts, false, noFrontEnd)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.controller.SetSoundEnabled(cmd.Context(), enabled); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Notification sound %s.\n", args[0])
			return nil
		},
	})

	settingsCmd.AddCommand(&cobra.Command{
		Use:       "snooze 5|10|15|30",
		Short:     "Set the snooze duration in minutes",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"5", "10", "15", "30"},
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", settings.ErrInvalidSnooze, args[0])
			}
			a, err := bootstrap(opts, false, noFrontEnd)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.controller.SetSnoozeMinutes(cmd.Context(), minutes); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snooze duration set to %d minutes.\n", minutes)
			return nil
		},
	})

	permissionCmd := &cobra.Command{
		Use:   "permission",
		Short: "Manage the stored notification permission",
	}
	permissionCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Forget the permission answer so daybook asks again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(opts, false, noFrontEnd)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.store.ResetPermission(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Notification permission reset.")
			return nil
		},
	})
	settingsCmd.AddCommand(permissionCmd)

	return settingsCmd
}
