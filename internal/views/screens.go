package views

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/daybook/internal/model"
)

type DiaryPanelData struct {
	Date       string
	Editing    bool
	Loading    bool
	Pending    bool
	EditorView string
	Preview    string
}

type DayPanelData struct {
	View        model.DayView
	TodoCursor  int
	ShowCursor  bool
	DateHeading bool
}

type NotificationData struct {
	Title string
	Body  string
	At    string
	Level string
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

type SettingsData struct {
	NotificationsEnabled bool
	SoundEnabled         bool
	SnoozeMinutes        int
	Permission           string
}

func RenderDiaryPanel(data DiaryPanelData) string {
	var b strings.Builder
	state := ""
	switch {
	case data.Loading:
		state = " (loading)"
	case data.Pending:
		state = " (unsaved)"
	}
	b.WriteString(fmt.Sprintf("diary %s%s:\n", data.Date, state))
	if data.Editing {
		b.WriteString(data.EditorView)
		b.WriteString("\n" + mutedStyle.Render("[esc] stop editing"))
		return b.String()
	}
	if strings.TrimSpace(data.Preview) == "" {
		b.WriteString(mutedStyle.Render("(no entry, press e to write)"))
		return b.String()
	}
	b.WriteString(data.Preview)
	return strings.TrimSpace(b.String())
}

// RenderDayPanel renders the note, reminders and todos of a day.
func RenderDayPanel(data DayPanelData) string {
	v := data.View
	var b strings.Builder
	if data.DateHeading {
		b.WriteString(fmt.Sprintf("day: %s\n\n", v.Date))
	}
	if v.Loading {
		b.WriteString("loading...\n")
		return strings.TrimSpace(b.String())
	}

	b.WriteString("note:\n")
	if v.Note != nil {
		b.WriteString("  " + v.Note.Text + "\n")
	} else {
		b.WriteString("  (none)\n")
	}

	b.WriteString("\nreminders:\n")
	if len(v.Reminders) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, r := range v.Reminders {
		b.WriteString("  " + FormatReminder(r) + "\n")
	}

	b.WriteString(fmt.Sprintf("\ntodos (%d open):\n", v.OpenTodos()))
	if len(v.Todos) == 0 {
		b.WriteString("  (none)\n")
	}
	for i, item := range v.Todos {
		cursor := " "
		if data.ShowCursor && i == data.TodoCursor {
			cursor = ">"
		}
		box, text := "[ ]", item.Text
		if item.Completed {
			box, text = "[x]", doneStyle.Render(item.Text)
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, box, text))
	}
	return strings.TrimSpace(b.String())
}

func FormatReminder(r model.ReminderRecord) string {
	clock, ok := r.Clock()
	if !ok {
		return r.Text
	}
	return fmt.Sprintf("%s - %s", clock, r.Text)
}

func RenderNotifications(items []NotificationData) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("notifications:\n")
	for _, n := range items {
		line := fmt.Sprintf("%s [%s] %s: %s", n.At, strings.ToUpper(n.Level), n.Title, n.Body)
		if n.Level == "warning" {
			line = warningStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command: " + inputView
}

func RenderConsentPrompt(question string) string {
	if question == "" {
		return ""
	}
	return fmt.Sprintf("%s\n[y] allow  [n] deny", question)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s\n%s", strings.Join(data.Bindings, "\n"), data.HelpView)
}

func RenderSettings(data SettingsData) string {
	return fmt.Sprintf("notifications: %s\nsound: %s\nsnooze: %d minutes\npermission: %s",
		onOff(data.NotificationsEnabled),
		onOff(data.SoundEnabled),
		data.SnoozeMinutes,
		data.Permission,
	)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
