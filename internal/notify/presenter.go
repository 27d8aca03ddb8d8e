package notify

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/daybook/internal/logger"
	"github.com/sandeepkv93/daybook/internal/metrics"
	"github.com/sandeepkv93/daybook/internal/model"
	"github.com/sandeepkv93/daybook/internal/storage"
)

var (
	ErrSinkFull  = errors.New("notify: sink buffer full")
	ErrNoSnoozer = errors.New("notify: snooze is not configured")
	ErrNoSinks   = errors.New("notify: no sinks configured")
)

type Alert struct {
	Title    string
	Body     string
	Icon     string
	Reminder model.ReminderRecord
	Sound    bool
}

type Presenter struct {
	sinks   []Sink
	sound   SoundPlayer
	snoozer Snoozer
	history storage.NotificationLog
	log     *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type PresenterOption func(*Presenter)

func WithSound(player SoundPlayer) PresenterOption {
	return func(p *Presenter) { p.sound = player }
}

func WithSnoozer(s Snoozer) PresenterOption {
	return func(p *Presenter) { p.snoozer = s }
}

func WithHistory(h storage.NotificationLog) PresenterOption {
	return func(p *Presenter) { p.history = h }
}

func WithLogger(l *logger.Logger) PresenterOption {
	return func(p *Presenter) {
		if l != nil {
			p.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) PresenterOption {
	return func(p *Presenter) { p.metrics = m }
}

func WithClock(now func() time.Time) PresenterOption {
	return func(p *Presenter) {
		if now != nil {
			p.now = now
		}
	}
}

func NewPresenter(sinks []Sink, opts ...PresenterOption) *Presenter {
	p := &Presenter{
		sinks: sinks,
		log:   logger.Nop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.WithComponent("presenter")
	return p
}

// Present shows the alert on every sink. Sound failures are logged and never
// returned; sink failures are joined into the returned error.
func (p *Presenter) Present(ctx context.Context, a Alert) error {
	if len(p.sinks) == 0 {
		return ErrNoSinks
	}
	n := Notification{
		ID:                 uuid.NewString(),
		Title:              a.Title,
		Body:               a.Body,
		Icon:               a.Icon,
		Renotify:           true,
		RequireInteraction: true,
		Actions:            []Action{SnoozeAction},
		Reminder:           a.Reminder,
		At:                 p.now(),
	}
	if n.Title == "" {
		n.Title = DefaultTitle
	}
	if n.Body == "" {
		n.Body = a.Reminder.Text
	}
	if n.Icon == "" {
		n.Icon = DefaultIcon
	}
	log := p.log.WithFields("notification_id", n.ID, "date", n.Reminder.Date)

	var logID int64
	if p.history != nil {
		clock, _ := n.Reminder.Clock()
		id, err := p.history.AppendNotification(ctx, storage.NotificationLogEntry{
			ReminderDate: string(n.Reminder.Date),
			ReminderTime: string(clock),
			Body:         n.Body,
			PresentedAt:  n.At,
		})
		if err != nil {
			log.WithError(err).Warnw("record notification failed")
		}
		logID = id
	}

	var answered atomic.Bool
	actionCtx := context.WithoutCancel(ctx)
	shown := n
	n.OnAction = func(action string) {
		if !answered.CompareAndSwap(false, true) {
			return
		}
		if err := p.handle(actionCtx, action, shown, logID); err != nil {
			log.WithError(err).Warnw("notification action failed", "action", action)
		}
	}

	var errs []error
	for _, sink := range p.sinks {
		err := sink.Show(ctx, n)
		p.metrics.Notification(sink.Name(), err)
		if err != nil {
			log.WithError(err).Warnw("sink failed", "sink", sink.Name())
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
		}
	}
	log.Infow("notification presented", "body", n.Body, "sinks", len(p.sinks)-len(errs))

	if a.Sound && p.sound != nil {
		if err := p.sound.Play(ctx); err != nil {
			log.WithError(err).Warnw("sound playback failed")
		}
	}
	return errors.Join(errs...)
}

// HandleAction routes a user response to a presented notification.
func (p *Presenter) HandleAction(ctx context.Context, action string, n Notification) error {
	return p.handle(ctx, action, n, 0)
}

func (p *Presenter) handle(ctx context.Context, action string, n Notification, logID int64) error {
	log := p.log.WithFields("notification_id", n.ID, "action", action)
	switch action {
	case ActionBody:
		log.Debugw("notification opened")
		p.markAction(ctx, logID, "open")
		return nil
	case ActionSnooze:
		if p.snoozer == nil {
			return ErrNoSnoozer
		}
		next, err := p.snoozer.Snooze(ctx, n.Reminder)
		p.metrics.Snooze(err)
		if err != nil {
			return err
		}
		clock, _ := next.Clock()
		log.Infow("reminder snoozed", "date", next.Date, "time", clock)
		p.markAction(ctx, logID, ActionSnooze)
		return nil
	default:
		log.Debugw("ignoring notification action")
		return nil
	}
}

func (p *Presenter) markAction(ctx context.Context, logID int64, action string) {
	if p.history == nil || logID == 0 {
		return
	}
	if err := p.history.MarkNotificationAction(ctx, logID, action); err != nil {
		p.log.WithError(err).Warnw("record notification action failed")
	}
}
