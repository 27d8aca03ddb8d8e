package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sandeepkv93/daybook/internal/config"
	"github.com/sandeepkv93/daybook/internal/logger"
	"github.com/sandeepkv93/daybook/internal/notify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newWatchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Poll for due reminders and notify until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
}

func runWatch(ctx context.Context, opts *rootOptions, out io.Writer) error {
	console := notify.NewChanSink(16)
	a, err := bootstrap(opts, false, func(cfg *config.Config, log *logger.Logger) frontEnd {
		sinks := []notify.Sink{console}
		if cfg.Notify.Desktop && notify.DesktopAvailable() {
			sinks = append(sinks, notify.NewDesktopSink(log))
		}
		return frontEnd{
			sinks:    sinks,
			prompter: notify.NewStdinPrompter(os.Stdin, out),
			sound:    soundPlayer(cfg),
		}
	})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	user, err := a.login(ctx)
	if err != nil {
		return err
	}
	if err := a.controller.BeginSession(ctx, user); err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	if !a.poller.Running() {
		fmt.Fprintln(out, "Notifications are disabled. Run `daybook settings notifications on` to enable them.")
		return nil
	}
	fmt.Fprintf(out, "Watching reminders for %s every %s. Press Ctrl+C to stop.\n", user.Username, a.cfg.Scheduler.Interval)

	g, gctx := errgroup.WithContext(ctx)
	if a.cfg.Metrics.Enabled {
		g.Go(func() error {
			return a.metrics.Serve(gctx, a.cfg.Metrics.Listen)
		})
	}
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case n := <-console.C():
				fmt.Fprintf(out, "[%s] %s %s\n", n.At.Format("15:04"), n.Title, n.Body)
			}
		}
	})
	if err := g.Wait(); err != nil {
		return err
	}
	a.log.Infow("watch stopped")
	return nil
}
