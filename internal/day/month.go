package day

import (
	"context"

	"github.com/sandeepkv93/daybook/internal/model"
	"golang.org/x/sync/errgroup"
)

type MonthSource interface {
	GetMonthReminders(ctx context.Context, m model.Month) ([]model.ReminderRecord, error)
	GetMonthTodos(ctx context.Context, m model.Month) ([]model.DatedTodo, error)
}

// LoadMonth fetches the month listings in parallel and folds them into an
// overview. Either listing failing fails the whole load.
func LoadMonth(ctx context.Context, src MonthSource, m model.Month) (model.MonthOverview, error) {
	var (
		reminders []model.ReminderRecord
		todos     []model.DatedTodo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reminders, err = src.GetMonthReminders(gctx, m)
		return wrap("month reminders", err)
	})
	g.Go(func() error {
		var err error
		todos, err = src.GetMonthTodos(gctx, m)
		return wrap("month todos", err)
	})
	if err := g.Wait(); err != nil {
		return model.MonthOverview{Month: m}, err
	}
	return model.NewMonthOverview(m, reminders, todos), nil
}
