package notify

import (
	"context"
	"time"

	"github.com/sandeepkv93/daybook/internal/model"
)

const (
	ActionBody   = ""
	ActionSnooze = "snooze"

	DefaultTitle = "Reminder!"
	DefaultIcon  = "/logo192.png"
)

type Action struct {
	ID    string
	Title string
}

var SnoozeAction = Action{ID: ActionSnooze, Title: "Snooze"}

// Notification is what a sink renders. OnAction is set by the Presenter and
// must be called by the sink when the user picks an action or clicks the body.
type Notification struct {
	ID                 string
	Title              string
	Body               string
	Icon               string
	Renotify           bool
	RequireInteraction bool
	Actions            []Action
	Reminder           model.ReminderRecord
	At                 time.Time
	OnAction           func(action string)
}

// Respond reports a user action back to the presenter. Safe on notifications
// without a handler.
func (n Notification) Respond(action string) {
	if n.OnAction != nil {
		n.OnAction(action)
	}
}

type Sink interface {
	Name() string
	Show(ctx context.Context, n Notification) error
}

type SoundPlayer interface {
	Play(ctx context.Context) error
}

type Snoozer interface {
	Snooze(ctx context.Context, rec model.ReminderRecord) (model.ReminderRecord, error)
}
