package model

import "strings"

type DiaryEntry struct {
	Date     CalendarDate
	Text     string
	ImageURL string
	Tags     []string
}

func (e DiaryEntry) IsEmpty() bool {
	return e.Text == "" && e.ImageURL == ""
}

type Note struct {
	Date CalendarDate
	Text string
}

type TodoItem struct {
	ID        string
	Text      string
	Completed bool
}

// DayView aggregates the four per-day resources of one date. Absent resources
// are nil or empty, never placeholders.
type DayView struct {
	Date      CalendarDate
	Diary     *DiaryEntry
	Note      *Note
	Reminders []ReminderRecord
	Todos     []TodoItem
	Loading   bool
}

func EmptyDay(date CalendarDate) DayView {
	return DayView{
		Date:      date,
		Reminders: []ReminderRecord{},
		Todos:     []TodoItem{},
	}
}

// NewDayView normalizes raw backend resources into a day view.
func NewDayView(date CalendarDate, entry DiaryEntry, note Note, reminder ReminderRecord, todos []TodoItem) DayView {
	view := EmptyDay(date)
	if !entry.IsEmpty() {
		entry.Date = date
		view.Diary = &entry
	}
	if strings.TrimSpace(note.Text) != "" {
		note.Date = date
		view.Note = &note
	}
	if !reminder.IsEmpty() {
		reminder.Date = date
		view.Reminders = append(view.Reminders, reminder)
	}
	if len(todos) > 0 {
		view.Todos = append(view.Todos, todos...)
	}
	return view
}

func (v DayView) DiaryText() string {
	if v.Diary == nil {
		return ""
	}
	return v.Diary.Text
}

func (v DayView) OpenTodos() int {
	n := 0
	for _, item := range v.Todos {
		if !item.Completed {
			n++
		}
	}
	return n
}
