package update

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/daybook/internal/day"
	"github.com/sandeepkv93/daybook/internal/model"
)

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	case m.Keys.PrevDay, "left":
		return m.openDate(m.Date.AddDays(-1))
	case m.Keys.NextDay, "right":
		return m.openDate(m.Date.AddDays(1))
	case m.Keys.Today:
		return m.openDate(model.DateOf(m.deps.Now()))
	case m.Keys.Edit:
		if m.Day.Loading {
			m.Status = StatusBar{Text: "day is still loading", IsError: true}
			return m, nil
		}
		m.Mode = ModeEdit
		m.Status = StatusBar{Text: "editing diary"}
		cmd := m.diaryArea.Focus()
		return m, cmd
	case m.Keys.Snooze:
		return m.snoozeLatest()
	case "up", "k":
		if m.TodoCursor > 0 {
			m.TodoCursor--
		}
		return m, nil
	case "down", "j":
		if m.TodoCursor < len(m.Day.Todos)-1 {
			m.TodoCursor++
		}
		return m, nil
	case m.Keys.Toggle, " ":
		return m.toggleSelectedTodo()
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown"}
		} else {
			m.Status = StatusBar{Text: "help hidden"}
		}
		return m, nil
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.Mode = ModeBrowse
		m.diaryArea.Blur()
		m.refreshPreview()
		m.Status = StatusBar{Text: "editing stopped"}
		return m, nil
	}
	before := m.diaryArea.Value()
	var cmd tea.Cmd
	m.diaryArea, cmd = m.diaryArea.Update(msg)
	after := m.diaryArea.Value()
	if after == before {
		return m, cmd
	}
	if err := m.deps.Days.Edit(m.Date, after); err != nil {
		m.LastError = err
		if errors.Is(err, day.ErrStale) {
			reopened, reload := m.openDate(m.Date)
			next := reopened.(Model)
			next.Status = StatusBar{Text: editError(err), IsError: true}
			return next, tea.Batch(cmd, reload)
		}
		m.Status = StatusBar{Text: editError(err), IsError: true}
	}
	return m, cmd
}

func editError(err error) string {
	switch {
	case errors.Is(err, day.ErrLoading):
		return "day is still loading, edit not saved"
	case errors.Is(err, day.ErrNoDay):
		return "no day is open"
	case errors.Is(err, day.ErrStale):
		return "day changed while editing, reloading"
	default:
		return err.Error()
	}
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var answer bool
	switch msg.String() {
	case "y", "Y":
		answer = true
	case "n", "N", "esc":
		answer = false
	case "ctrl+c":
		m.answerPrompt(false)
		m.Quitting = true
		return m, tea.Quit
	default:
		return m, nil
	}
	m.answerPrompt(answer)
	return m, waitForPromptCmd(m.deps.Prompts)
}

func (m *Model) answerPrompt(answer bool) {
	if m.Prompt == nil {
		return
	}
	select {
	case m.Prompt.Reply <- answer:
	default:
	}
	m.Prompt = nil
}

// openDate switches the visible day. Pending diary edits of the previous day
// are dropped by the aggregator.
func (m Model) openDate(date model.CalendarDate) (tea.Model, tea.Cmd) {
	m.Date = date
	m.Day = loadingDay(date)
	m.Mode = ModeBrowse
	m.TodoCursor = 0
	m.diaryArea.Blur()
	m.diaryArea.SetValue("")
	m.preview.SetContent("")
	m.Status = StatusBar{Text: fmt.Sprintf("opening %s", date)}
	open := m.openDayCmd(date)
	month, err := model.MonthOf(date)
	if err != nil || month == m.Month.Wanted {
		return m, open
	}
	m.Month = MonthState{Overview: model.MonthOverview{Month: month}, Wanted: month}
	if m.deps.Months == nil {
		return m, open
	}
	m.Month.Loading = true
	return m, tea.Batch(open, m.loadMonthCmd(month))
}

func (m Model) snoozeLatest() (tea.Model, tea.Cmd) {
	for i := len(m.Notifications) - 1; i >= 0; i-- {
		src := m.Notifications[i].Source
		if src == nil {
			continue
		}
		m.Notifications[i].Source = nil
		m.Status = StatusBar{Text: fmt.Sprintf("snoozing %q for %d minutes", src.Body, m.Settings.SnoozeMinutes)}
		return m, snoozeCmd(*src)
	}
	m.Status = StatusBar{Text: "no reminder to snooze", IsError: true}
	return m, nil
}

func (m Model) toggleSelectedTodo() (tea.Model, tea.Cmd) {
	if m.Day.Loading || m.TodoCursor < 0 || m.TodoCursor >= len(m.Day.Todos) {
		return m, nil
	}
	id := m.Day.Todos[m.TodoCursor].ID
	days, ctx, date := m.deps.Days, m.ctx, m.Date
	return m, m.changeDayCmd(func() (model.DayView, error) {
		return days.ToggleTodo(ctx, date, id)
	})
}

func (m *Model) clampTodoCursor() {
	if m.TodoCursor >= len(m.Day.Todos) {
		m.TodoCursor = len(m.Day.Todos) - 1
	}
	if m.TodoCursor < 0 {
		m.TodoCursor = 0
	}
}
