package day

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sandeepkv93/daybook/internal/model"
)

var ErrTodoNotFound = errors.New("day: todo not found")

// checkDay returns the generation of the loaded day when it is date.
func (a *Aggregator) checkDay(date model.CalendarDate) (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.checkDayLocked(date)
}

func (a *Aggregator) checkDayLocked(date model.CalendarDate) (uint64, error) {
	switch {
	case a.closed:
		return 0, ErrClosed
	case !a.open:
		return 0, ErrNoDay
	case a.view.Date != date:
		a.metrics.Stale("edit")
		return 0, ErrStale
	case a.loading:
		return 0, ErrLoading
	}
	return a.gen, nil
}

// SaveNote writes the note of date and applies the response if that day is
// still open.
func (a *Aggregator) SaveNote(ctx context.Context, date model.CalendarDate, text string) (model.DayView, error) {
	gen, err := a.checkDay(date)
	if err != nil {
		return model.DayView{}, err
	}
	note, err := a.backend.SaveNote(ctx, date, text)
	if err != nil {
		return model.DayView{}, err
	}
	return a.apply(gen, func(v *model.DayView) {
		if strings.TrimSpace(note.Text) == "" {
			v.Note = nil
			return
		}
		note.Date = date
		v.Note = &note
	})
}

func (a *Aggregator) AddTodo(ctx context.Context, date model.CalendarDate, text string) (model.DayView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.DayView{}, errors.New("day: todo text is required")
	}
	return a.rewriteTodos(ctx, date, func(items []model.TodoItem) ([]model.TodoItem, error) {
		return append(items, model.TodoItem{ID: uuid.NewString(), Text: text}), nil
	})
}

func (a *Aggregator) ToggleTodo(ctx context.Context, date model.CalendarDate, id string) (model.DayView, error) {
	return a.rewriteTodos(ctx, date, func(items []model.TodoItem) ([]model.TodoItem, error) {
		for i := range items {
			if items[i].ID == id {
				items[i].Completed = !items[i].Completed
				return items, nil
			}
		}
		return nil, ErrTodoNotFound
	})
}

func (a *Aggregator) rewriteTodos(ctx context.Context, date model.CalendarDate, edit func([]model.TodoItem) ([]model.TodoItem, error)) (model.DayView, error) {
	gen, err := a.checkDay(date)
	if err != nil {
		return model.DayView{}, err
	}
	current, _ := a.Current()
	items, err := edit(current.Todos)
	if err != nil {
		return model.DayView{}, err
	}
	saved, err := a.backend.SaveTodos(ctx, date, items)
	if err != nil {
		return model.DayView{}, err
	}
	return a.apply(gen, func(v *model.DayView) {
		v.Todos = append([]model.TodoItem{}, saved...)
	})
}

func (a *Aggregator) apply(gen uint64, mutate func(*model.DayView)) (model.DayView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || !a.open || a.gen != gen {
		a.metrics.Stale("edit")
		return model.DayView{}, ErrStale
	}
	mutate(&a.view)
	a.publishLocked(Update{Kind: UpdateSaved, View: cloneView(a.view)})
	return cloneView(a.view), nil
}
