package update

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/daybook/internal/day"
	"github.com/sandeepkv93/daybook/internal/model"
	"github.com/sandeepkv93/daybook/internal/notify"
)

func (m Model) openDayCmd(date model.CalendarDate) tea.Cmd {
	days, ctx := m.deps.Days, m.ctx
	return func() tea.Msg {
		view, err := days.OpenDay(ctx, date)
		return DayLoadedMsg{Date: date, View: view, Err: err}
	}
}

func (m Model) loadMonthCmd(month model.Month) tea.Cmd {
	src, ctx := m.deps.Months, m.ctx
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		overview, err := day.LoadMonth(ctx, src, month)
		return MonthLoadedMsg{Month: month, Overview: overview, Err: err}
	}
}

func (m Model) changeDayCmd(change func() (model.DayView, error)) tea.Cmd {
	return func() tea.Msg {
		view, err := change()
		return DayChangedMsg{View: view, Err: err}
	}
}

func (m Model) loadSettingsCmd() tea.Cmd {
	svc, ctx := m.deps.Settings, m.ctx
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		prefs, err := svc.Preferences(ctx)
		return SettingsLoadedMsg{Preferences: prefs, Permission: svc.PermissionStatus(ctx), Err: err}
	}
}

func (m Model) toggleNotificationsCmd(enabled bool) tea.Cmd {
	svc, ctx := m.deps.Settings, m.ctx
	return func() tea.Msg {
		out, err := svc.SetNotificationsEnabled(ctx, enabled)
		return NotificationsToggledMsg{Outcome: out, Err: err}
	}
}

func settingsCmd(apply func() error, ok string) tea.Cmd {
	return func() tea.Msg {
		return SettingsAppliedMsg{Text: ok, Err: apply()}
	}
}

func snoozeCmd(n notify.Notification) tea.Cmd {
	return func() tea.Msg {
		n.Respond(notify.ActionSnooze)
		return SetStatusMsg{Text: "snooze requested"}
	}
}

func waitForDayUpdateCmd(ch <-chan day.Update) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return DayUpdateMsg{Update: u}
	}
}

func waitForNotificationCmd(ch <-chan notify.Notification) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return NotificationMsg{Notification: n}
	}
}

func waitForPromptCmd(ch <-chan notify.PromptRequest) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		req, ok := <-ch
		if !ok {
			return nil
		}
		return PromptMsg{Request: req}
	}
}

func isStale(err error) bool {
	return errors.Is(err, day.ErrStale) || errors.Is(err, day.ErrClosed)
}
