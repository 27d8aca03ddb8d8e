package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/daybook/internal/commands"
	"github.com/sandeepkv93/daybook/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	days, svc, ctx, shown := m.deps.Days, m.deps.Settings, m.ctx, m.Date
	var next tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Open: func(a commands.OpenArgs) (commands.Result, error) {
			date, err := commands.ResolveDate(a.Target, model.DateOf(m.deps.Now()))
			if err != nil {
				return commands.Result{}, err
			}
			var opened tea.Model
			opened, next = m.openDate(date)
			m = opened.(Model)
			return commands.Result{Message: fmt.Sprintf("opening %s", date)}, nil
		},
		Notify: func(a commands.ToggleArgs) (commands.Result, error) {
			next = m.toggleNotificationsCmd(a.Enabled)
			return commands.Result{Message: "updating notifications"}, nil
		},
		Sound: func(a commands.ToggleArgs) (commands.Result, error) {
			next = settingsCmd(func() error { return svc.SetSoundEnabled(ctx, a.Enabled) },
				fmt.Sprintf("notification sound %s", onOff(a.Enabled)))
			return commands.Result{Message: "updating sound"}, nil
		},
		Snooze: func(a commands.SnoozeArgs) (commands.Result, error) {
			next = settingsCmd(func() error { return svc.SetSnoozeMinutes(ctx, a.Minutes) },
				fmt.Sprintf("snooze duration set to %d minutes", a.Minutes))
			return commands.Result{Message: "updating snooze duration"}, nil
		},
		Todo: func(a commands.TextArgs) (commands.Result, error) {
			next = m.changeDayCmd(func() (model.DayView, error) { return days.AddTodo(ctx, shown, a.Text) })
			return commands.Result{Message: fmt.Sprintf("adding todo: %s", a.Text)}, nil
		},
		Note: func(a commands.TextArgs) (commands.Result, error) {
			next = m.changeDayCmd(func() (model.DayView, error) { return days.SaveNote(ctx, shown, a.Text) })
			return commands.Result{Message: "saving note"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	return m, next
}
