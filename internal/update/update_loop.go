package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/daybook/internal/day"
	"github.com/sandeepkv93/daybook/internal/model"
	"github.com/sandeepkv93/daybook/internal/views"
)

const maxNotifications = 20

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.openDayCmd(m.Date),
		m.loadMonthCmd(m.Month.Wanted),
		m.loadSettingsCmd(),
		waitForDayUpdateCmd(m.deps.Days.Updates()),
		waitForNotificationCmd(m.deps.Inbox),
		waitForPromptCmd(m.deps.Prompts),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Prompt != nil {
			return m.handlePromptKey(typed)
		}
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if m.Mode == ModeEdit {
			return m.handleEditorKey(typed)
		}
		return m.handleBrowseKey(typed)
	case DayLoadedMsg:
		if typed.Date != m.Date {
			if isStale(typed.Err) {
				return m, nil
			}
			// The day service finished opening a day after ours did.
			m.log.Debugw("day service holds another day, reopening", "open", typed.Date, "shown", m.Date)
			return m.openDate(m.Date)
		}
		if isStale(typed.Err) {
			return m, nil
		}
		m.applyLoadedDay(typed.View)
		if typed.Err == nil {
			m.Month.Overview = m.Month.Overview.WithDay(typed.View)
		} else {
			m.log.WithError(typed.Err).Warnw("day load failed", "date", typed.Date)
			m.LastError = typed.Err
			m.Status = StatusBar{Text: fmt.Sprintf("could not load %s: %v", typed.Date, typed.Err), IsError: true}
		}
		return m, nil
	case MonthLoadedMsg:
		if typed.Month != m.Month.Wanted {
			return m, nil
		}
		m.Month.Loading = false
		m.Month.Failed = typed.Err != nil
		m.Month.Overview = typed.Overview
		if typed.Err != nil {
			m.log.WithError(typed.Err).Warnw("month load failed", "month", typed.Month.String())
		} else if !m.Day.Loading {
			m.Month.Overview = m.Month.Overview.WithDay(m.Day)
		}
		return m, nil
	case DayUpdateMsg:
		m.applyDayUpdate(typed.Update)
		return m, waitForDayUpdateCmd(m.deps.Days.Updates())
	case DayChangedMsg:
		if typed.Err != nil {
			if !isStale(typed.Err) {
				m.LastError = typed.Err
				m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			}
			return m, nil
		}
		if typed.View.Date == m.Date {
			m.Day = typed.View
			m.Month.Overview = m.Month.Overview.WithDay(typed.View)
			m.clampTodoCursor()
		}
		return m, nil
	case NotificationMsg:
		n := typed.Notification
		m.pushNotification(Notification{Title: n.Title, Body: n.Body, Level: "reminder", At: n.At, Source: &n})
		m.Status = StatusBar{Text: fmt.Sprintf("%s %s (press %s to snooze)", n.Title, n.Body, m.Keys.Snooze)}
		return m, waitForNotificationCmd(m.deps.Inbox)
	case PromptMsg:
		req := typed.Request
		m.Prompt = &req
		return m, nil
	case SettingsLoadedMsg:
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			return m, nil
		}
		m.Settings = SettingsState{
			NotificationsEnabled: typed.Preferences.NotificationsEnabled,
			SoundEnabled:         typed.Preferences.SoundEnabled,
			SnoozeMinutes:        typed.Preferences.SnoozeMinutes,
			Permission:           typed.Permission,
		}
		return m, nil
	case NotificationsToggledMsg:
		m.Settings.NotificationsEnabled = typed.Outcome.Enabled
		if typed.Outcome.Message != "" {
			m.pushNotification(Notification{Title: "Notifications", Body: typed.Outcome.Message, Level: string(typed.Outcome.Level), At: m.deps.Now()})
			m.Status = StatusBar{Text: typed.Outcome.Message}
		}
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, m.loadSettingsCmd()
	case SettingsAppliedMsg:
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			return m, nil
		}
		m.Status = StatusBar{Text: typed.Text}
		return m, m.loadSettingsCmd()
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) applyLoadedDay(view model.DayView) {
	m.Day = view
	m.TodoCursor = 0
	m.diaryArea.SetValue(view.DiaryText())
	m.refreshPreview()
}

func (m *Model) applyDayUpdate(u day.Update) {
	if u.View.Date != m.Date {
		return
	}
	switch u.Kind {
	case day.UpdateSaved:
		m.Day = u.View
		m.Month.Overview = m.Month.Overview.WithDay(u.View)
		m.clampTodoCursor()
		m.Status = StatusBar{Text: "diary saved"}
		if m.Mode == ModeBrowse {
			m.refreshPreview()
		}
	case day.UpdateSaveFailed:
		m.Status = StatusBar{Text: fmt.Sprintf("diary save failed: %v", u.Err), IsError: true}
	}
}

func (m *Model) pushNotification(n Notification) {
	if strings.TrimSpace(n.Body) == "" {
		return
	}
	if n.At.IsZero() {
		n.At = m.deps.Now()
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	return views.RenderApp(views.AppData{
		Header:       m.header(),
		LeftPane:     m.renderDiaryPane(),
		RightPane:    m.renderMonthPane() + m.renderDayPane() + m.renderCommandPalette() + m.renderHelpIfVisible(),
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.renderNotificationsView(),
		Overlay:      m.renderPromptOverlay(),
		Footer: fmt.Sprintf("keys: %s/%s day | %s today | %s edit | %s snooze | / cmd | %s help | %s quit",
			m.Keys.PrevDay, m.Keys.NextDay, m.Keys.Today, m.Keys.Edit, m.Keys.Snooze, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) header() string {
	weekday := ""
	if t, err := m.Date.Time(time.Local); err == nil {
		weekday = " (" + t.Format("Mon") + ")"
	}
	return fmt.Sprintf("daybook | %s%s | notifications: %s | sound: %s | permission: %s",
		m.Date, weekday, onOff(m.Settings.NotificationsEnabled), onOff(m.Settings.SoundEnabled), m.Settings.Permission)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
