package update

import (
	"github.com/sandeepkv93/daybook/internal/views"
)

const previewWidth = 52

func (m Model) renderDiaryPane() string {
	return views.RenderDiaryPanel(views.DiaryPanelData{
		Date:       string(m.Date),
		Editing:    m.Mode == ModeEdit,
		Loading:    m.Day.Loading,
		Pending:    m.deps.Days.Pending(),
		EditorView: m.diaryArea.View(),
		Preview:    m.preview.View(),
	})
}

func (m Model) renderMonthPane() string {
	if m.deps.Months == nil {
		return ""
	}
	return views.RenderMonthGrid(views.MonthData{
		Overview: m.Month.Overview,
		Selected: m.Date,
		Loading:  m.Month.Loading,
		Failed:   m.Month.Failed,
	}) + "\n\n"
}

func (m Model) renderDayPane() string {
	return views.RenderDayPanel(views.DayPanelData{
		View:       m.Day,
		TodoCursor: m.TodoCursor,
		ShowCursor: m.Mode == ModeBrowse,
	})
}

func (m Model) renderCommandPalette() string {
	out := views.RenderCommandPalette(m.Palette.Active, m.commandInput.View())
	if out == "" {
		return ""
	}
	return "\n\n" + out
}

func (m Model) renderNotificationsView() string {
	const shown = 3
	items := m.Notifications
	if len(items) > shown {
		items = items[len(items)-shown:]
	}
	data := make([]views.NotificationData, 0, len(items))
	for _, n := range items {
		data = append(data, views.NotificationData{
			Title: n.Title,
			Body:  n.Body,
			Level: n.Level,
			At:    n.At.Format("15:04"),
		})
	}
	return views.RenderNotifications(data)
}

func (m Model) renderPromptOverlay() string {
	if m.Prompt == nil {
		return ""
	}
	return views.RenderConsentPrompt(m.Prompt.Question)
}

func (m *Model) refreshPreview() {
	m.preview.SetContent(views.RenderMarkdown(m.diaryArea.Value(), previewWidth))
	m.preview.GotoTop()
}
