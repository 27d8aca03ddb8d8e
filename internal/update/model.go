package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/daybook/internal/day"
	"github.com/sandeepkv93/daybook/internal/logger"
	"github.com/sandeepkv93/daybook/internal/model"
	"github.com/sandeepkv93/daybook/internal/notify"
	"github.com/sandeepkv93/daybook/internal/settings"
)

// DayService is the slice of the day aggregator the TUI drives.
type DayService interface {
	OpenDay(ctx context.Context, date model.CalendarDate) (model.DayView, error)
	Edit(date model.CalendarDate, text string) error
	Pending() bool
	SaveNote(ctx context.Context, date model.CalendarDate, text string) (model.DayView, error)
	AddTodo(ctx context.Context, date model.CalendarDate, text string) (model.DayView, error)
	ToggleTodo(ctx context.Context, date model.CalendarDate, id string) (model.DayView, error)
	Updates() <-chan day.Update
}

type SettingsService interface {
	SetNotificationsEnabled(ctx context.Context, enabled bool) (settings.Outcome, error)
	SetSoundEnabled(ctx context.Context, enabled bool) error
	SetSnoozeMinutes(ctx context.Context, minutes int) error
	Preferences(ctx context.Context) (settings.Preferences, error)
	PermissionStatus(ctx context.Context) model.PermissionStatus
}

type Deps struct {
	Days     DayService
	Settings SettingsService
	// Inbox delivers notifications shown by the in-app sink.
	Inbox <-chan notify.Notification
	// Prompts delivers permission questions that need a y/n answer.
	Prompts <-chan notify.PromptRequest
	// Months lists reminders and todos per month. Nil hides the month grid.
	Months day.MonthSource
	Now    func() time.Time
	Log    *logger.Logger
}

type Mode string

const (
	ModeBrowse Mode = "browse"
	ModeEdit   Mode = "edit"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	PrevDay string
	NextDay string
	Today   string
	Edit    string
	Snooze  string
	Toggle  string
	Help    string
	Quit    string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
	// Source is set for reminder notifications that can be snoozed.
	Source *notify.Notification
}

type SettingsState struct {
	NotificationsEnabled bool
	SoundEnabled         bool
	SnoozeMinutes        int
	Permission           model.PermissionStatus
}

type MonthState struct {
	Overview model.MonthOverview
	Wanted   model.Month
	Loading  bool
	Failed   bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	Date          model.CalendarDate
	Day           model.DayView
	Month         MonthState
	Mode          Mode
	TodoCursor    int
	Settings      SettingsState
	Notifications []Notification
	Prompt        *notify.PromptRequest
	Palette       CommandPaletteState
	HelpVisible   bool
	Status        StatusBar
	Keys          GlobalKeyMap
	Quitting      bool
	LastError     error

	deps Deps
	log  *logger.Logger
	ctx  context.Context

	diaryArea    textarea.Model
	commandInput textinput.Model
	preview      viewport.Model
	helpModel    help.Model
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// DayLoadedMsg carries the result of opening Date.
type DayLoadedMsg struct {
	Date model.CalendarDate
	View model.DayView
	Err  error
}

// DayChangedMsg carries the result of a note or todo write.
type DayChangedMsg struct {
	View model.DayView
	Err  error
}

// MonthLoadedMsg carries the overview of Month.
type MonthLoadedMsg struct {
	Month    model.Month
	Overview model.MonthOverview
	Err      error
}

type DayUpdateMsg struct {
	Update day.Update
}

type NotificationMsg struct {
	Notification notify.Notification
}

type PromptMsg struct {
	Request notify.PromptRequest
}

type SettingsLoadedMsg struct {
	Preferences settings.Preferences
	Permission  model.PermissionStatus
	Err         error
}

type SettingsAppliedMsg struct {
	Text string
	Err  error
}

type NotificationsToggledMsg struct {
	Outcome settings.Outcome
	Err     error
}

func NewModel(ctx context.Context, deps Deps) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	today := model.DateOf(deps.Now())
	month, _ := model.MonthOf(today)
	m := Model{
		Date: today,
		Day:  loadingDay(today),
		Month: MonthState{
			Overview: model.MonthOverview{Month: month},
			Wanted:   month,
			Loading:  deps.Months != nil,
		},
		Mode: ModeBrowse,
		Settings: SettingsState{
			SnoozeMinutes: settings.DefaultPreferences().SnoozeMinutes,
			Permission:    model.PermissionDefault,
		},
		Keys: GlobalKeyMap{
			PrevDay: "h",
			NextDay: "l",
			Today:   "t",
			Edit:    "e",
			Snooze:  "s",
			Toggle:  "x",
			Help:    "?",
			Quit:    "q",
		},
		deps: deps,
		log:  log.WithComponent("tui"),
		ctx:  ctx,
	}
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.diaryArea = textarea.New()
	m.diaryArea.Placeholder = "Dear diary..."
	m.diaryArea.ShowLineNumbers = false
	m.diaryArea.SetWidth(54)
	m.diaryArea.SetHeight(12)
	m.diaryArea.CharLimit = 0

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.Placeholder = "open tomorrow | todo buy milk | notify on"
	m.commandInput.CharLimit = 256

	m.preview = viewport.New(54, 12)
	m.helpModel = help.New()
}

func loadingDay(date model.CalendarDate) model.DayView {
	v := model.EmptyDay(date)
	v.Loading = true
	return v
}
