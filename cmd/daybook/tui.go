package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/daybook/internal/config"
	"github.com/sandeepkv93/daybook/internal/logger"
	"github.com/sandeepkv93/daybook/internal/notify"
	"github.com/sandeepkv93/daybook/internal/update"
	"github.com/spf13/cobra"
)

func newTUICommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive diary (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
}

func runTUI(ctx context.Context, opts *rootOptions) error {
	var (
		inbox    *notify.ChanSink
		prompter = notify.NewChannelPrompter()
	)
	a, err := bootstrap(opts, true, func(cfg *config.Config, log *logger.Logger) frontEnd {
		inbox = notify.NewChanSink(cfg.Notify.InAppBuffer)
		sinks := []notify.Sink{inbox}
		if cfg.Notify.Desktop && notify.DesktopAvailable() {
			sinks = append(sinks, notify.NewDesktopSink(log))
		}
		return frontEnd{sinks: sinks, prompter: prompter, sound: soundPlayer(cfg)}
	})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.serveMetrics(ctx)

	user, err := a.login(ctx)
	if err != nil {
		return err
	}
	if err := a.controller.BeginSession(ctx, user); err != nil {
		return fmt.Errorf("begin session: %w", err)
	}

	m := update.NewModel(ctx, update.Deps{
		Days:     a.days,
		Settings: a.controller,
		Inbox:    inbox.C(),
		Prompts:  prompter.Requests(),
		Months:   a.client,
		Log:      a.log.WithUser(user.Username),
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	if dropped := inbox.Dropped(); dropped > 0 {
		a.log.Warnw("in-app notifications dropped", "count", dropped)
	}
	return nil
}
