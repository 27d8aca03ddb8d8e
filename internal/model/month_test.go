package model

import (
	"testing"
	"time"
)

func TestMonthOf(t *testing.T) {
	m, err := MonthOf("2028-02-10")
	if err != nil {
		t.Fatalf("month of: %v", err)
	}
	if m.String() != "2028-02" || m.Days() != 29 || m.Day(29) != "2028-02-29" {
		t.Fatalf("unexpected month: %s days=%d", m, m.Days())
	}
	if !m.Contains("2028-02-01") || m.Contains("2028-03-01") || m.Contains("2027-02-01") {
		t.Fatal("unexpected month membership")
	}
	if m.First().Weekday() != time.Tuesday {
		t.Fatalf("unexpected first weekday: %s", m.First().Weekday())
	}
	if _, err := MonthOf("2028-13-01"); err == nil {
		t.Fatal("expected error for invalid date")
	}
}

func TestMonthOverviewMarks(t *testing.T) {
	m := Month{Year: 2026, Month: time.February}
	o := NewMonthOverview(m,
		[]ReminderRecord{
			{Date: "2026-02-03", Text: "dentist"},
			{Date: "2026-02-04"},
			{Date: "2026-03-01", Text: "outside"},
		},
		[]DatedTodo{
			{Date: "2026-02-03", Item: TodoItem{ID: "a", Text: "milk"}},
			{Date: "2026-02-10", Item: TodoItem{ID: "b", Text: "bread"}},
		},
	)
	if got := o.Marks("2026-02-03"); !got.Reminder || !got.Todo {
		t.Fatalf("expected both marks, got %+v", got)
	}
	if o.Marks("2026-02-04").Any() || o.Marks("2026-03-01").Any() {
		t.Fatal("empty reminders and other months must not be marked")
	}
	if got := o.Marks("2026-02-10"); got.Reminder || !got.Todo {
		t.Fatalf("expected todo mark only, got %+v", got)
	}

	updated := o.WithDay(EmptyDay("2026-02-03"))
	if updated.Marks("2026-02-03").Any() {
		t.Fatal("expected marks cleared for an emptied day")
	}
	if !o.Marks("2026-02-03").Todo {
		t.Fatal("WithDay must not mutate the original overview")
	}
	view := EmptyDay("2026-02-20")
	view.Todos = []TodoItem{{ID: "c", Text: "eggs"}}
	if !updated.WithDay(view).Marks("2026-02-20").Todo {
		t.Fatal("expected mark for day with todos")
	}
	if got := updated.WithDay(EmptyDay("2026-04-01")); len(got.Days) != len(updated.Days) {
		t.Fatal("day outside the month must not change the overview")
	}
}
