package model

import (
	"fmt"
	"strings"
	"time"
)

// Month is one month of the local calendar.
type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(d CalendarDate) (Month, error) {
	t, err := d.Time(time.Local)
	if err != nil {
		return Month{}, err
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// String renders the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) IsZero() bool { return m.Year == 0 && m.Month == 0 }

func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.Local)
}

func (m Month) Days() int {
	return m.First().AddDate(0, 1, -1).Day()
}

func (m Month) Day(n int) CalendarDate {
	return DateOf(m.First().AddDate(0, 0, n-1))
}

func (m Month) Contains(d CalendarDate) bool {
	return strings.HasPrefix(string(d), m.String()+"-")
}

// DatedTodo is a todo item listed together with its day, as month listings
// return them.
type DatedTodo struct {
	Date CalendarDate
	Item TodoItem
}

type DayMarks struct {
	Reminder bool
	Todo     bool
}

func (d DayMarks) Any() bool { return d.Reminder || d.Todo }

// MonthOverview marks the days of a month that carry a reminder or todos.
type MonthOverview struct {
	Month Month
	Days  map[CalendarDate]DayMarks
}

func NewMonthOverview(m Month, reminders []ReminderRecord, todos []DatedTodo) MonthOverview {
	out := MonthOverview{Month: m, Days: make(map[CalendarDate]DayMarks)}
	for _, r := range reminders {
		if r.IsEmpty() || !m.Contains(r.Date) {
			continue
		}
		marks := out.Days[r.Date]
		marks.Reminder = true
		out.Days[r.Date] = marks
	}
	for _, t := range todos {
		if !m.Contains(t.Date) {
			continue
		}
		marks := out.Days[t.Date]
		marks.Todo = true
		out.Days[t.Date] = marks
	}
	return out
}

func (o MonthOverview) Marks(d CalendarDate) DayMarks {
	return o.Days[d]
}

// WithDay returns a copy with the marks of v's date recomputed from v. Days
// outside the month leave the overview unchanged.
func (o MonthOverview) WithDay(v DayView) MonthOverview {
	if o.Month.IsZero() || !o.Month.Contains(v.Date) {
		return o
	}
	out := MonthOverview{Month: o.Month, Days: make(map[CalendarDate]DayMarks, len(o.Days)+1)}
	for d, marks := range o.Days {
		out.Days[d] = marks
	}
	marks := DayMarks{Reminder: len(v.Reminders) > 0, Todo: len(v.Todos) > 0}
	if marks.Any() {
		out.Days[v.Date] = marks
	} else {
		delete(out.Days, v.Date)
	}
	return out
}
