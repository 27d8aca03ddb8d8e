package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sandeepkv93/daybook/internal/commands"
	"github.com/sandeepkv93/daybook/internal/config"
	"github.com/sandeepkv93/daybook/internal/day"
	"github.com/sandeepkv93/daybook/internal/logger"
	"github.com/sandeepkv93/daybook/internal/model"
	"github.com/sandeepkv93/daybook/internal/views"
	"github.com/spf13/cobra"
)

func newDayCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "day [YYYY-MM-DD|today|tomorrow|yesterday|+N|-N]",
		Short: "Print the diary, note, reminders and todos of one day",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "today"
			if len(args) == 1 {
				target = args[0]
			}
			date, err := commands.ResolveDate(target, model.DateOf(time.Now()))
			if err != nil {
				return err
			}
			return runDay(cmd.Context(), opts, date, cmd.OutOrStdout())
		},
	}
}

func noFrontEnd(*config.Config, *logger.Logger) frontEnd { return frontEnd{} }

func runDay(ctx context.Context, opts *rootOptions, date model.CalendarDate, out io.Writer) error {
	a, err := bootstrap(opts, false, noFrontEnd)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.login(ctx); err != nil {
		return err
	}
	view, err := a.days.OpenDay(ctx, date)
	if err != nil {
		return fmt.Errorf("load %s: %w", date, err)
	}

	fmt.Fprintln(out, views.RenderDayPanel(views.DayPanelData{View: view, DateHeading: true}))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "diary:")
	if text := view.DiaryText(); text != "" {
		fmt.Fprintln(out, views.RenderMarkdown(text, 80))
	} else {
		fmt.Fprintln(out, "  (none)")
	}
	if view.Diary != nil && view.Diary.ImageURL != "" {
		fmt.Fprintf(out, "image: %s\n", view.Diary.ImageURL)
	}
	return nil
}

func newMonthCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Print a calendar of one month marking days with reminders or todos",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := model.MonthOf(model.DateOf(time.Now()))
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if month, err = model.MonthOf(model.CalendarDate(args[0] + "-01")); err != nil {
					return fmt.Errorf("month must be YYYY-MM: %w", err)
				}
			}
			return runMonth(cmd.Context(), opts, month, cmd.OutOrStdout())
		},
	}
}

func runMonth(ctx context.Context, opts *rootOptions, month model.Month, out io.Writer) error {
	a, err := bootstrap(opts, false, noFrontEnd)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.login(ctx); err != nil {
		return err
	}
	overview, err := day.LoadMonth(ctx, a.client, month)
	if err != nil {
		return fmt.Errorf("load %s: %w", month, err)
	}
	fmt.Fprintln(out, views.RenderMonthGrid(views.MonthData{Overview: overview, Selected: model.DateOf(time.Now())}))
	return nil
}
