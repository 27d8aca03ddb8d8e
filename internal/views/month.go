package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sandeepkv93/daybook/internal/model"
)

var selectedDayStyle = lipgloss.NewStyle().Reverse(true)

type MonthData struct {
	Overview model.MonthOverview
	Selected model.CalendarDate
	Loading  bool
	Failed   bool
}

// RenderMonthGrid renders a Monday-first calendar of the overview's month,
// marking days with a reminder (r), todos (t) or both (*).
func RenderMonthGrid(data MonthData) string {
	m := data.Overview.Month
	if m.IsZero() {
		return mutedStyle.Render("month: loading...")
	}
	var b strings.Builder
	title := m.First().Format("January 2006")
	switch {
	case data.Loading:
		title += mutedStyle.Render(" (loading)")
	case data.Failed:
		title += errorStyle.Render(" (unavailable)")
	}
	b.WriteString(title + "\n")
	b.WriteString("Mo  Tu  We  Th  Fr  Sa  Su\n")

	offset := (int(m.First().Weekday()) + 6) % 7
	cells := make([]string, 0, 42)
	for i := 0; i < offset; i++ {
		cells = append(cells, "   ")
	}
	for day := 1; day <= m.Days(); day++ {
		date := m.Day(day)
		cell := fmt.Sprintf("%2d%s", day, markFor(data.Overview.Marks(date)))
		if date == data.Selected {
			cell = selectedDayStyle.Render(cell)
		}
		cells = append(cells, cell)
	}
	for start := 0; start < len(cells); start += 7 {
		end := start + 7
		if end > len(cells) {
			end = len(cells)
		}
		b.WriteString(strings.TrimRight(strings.Join(cells[start:end], " "), " ") + "\n")
	}
	b.WriteString(mutedStyle.Render("r reminder  t todo  * both"))
	return b.String()
}

func markFor(marks model.DayMarks) string {
	switch {
	case marks.Reminder && marks.Todo:
		return "*"
	case marks.Reminder:
		return "r"
	case marks.Todo:
		return "t"
	default:
		return " "
	}
}
