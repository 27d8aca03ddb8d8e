package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandeepkv93/daybook/internal/logger"
	"github.com/sandeepkv93/daybook/internal/model"
)

const DefaultSnoozeMinutes = 5

var (
	SnoozeChoices = []int{5, 10, 15, 30}

	ErrNothingToSnooze = errors.New("scheduler: reminder has no text to snooze")
)

type ReminderWriter interface {
	SaveReminder(ctx context.Context, rec model.ReminderRecord) (model.ReminderRecord, error)
}

type SnoozeDurationSource interface {
	SnoozeMinutes(ctx context.Context) int
}

// Snoozer reschedules a reminder by writing a new "Snoozed:" record at
// now + the configured duration. The original record is never edited.
type Snoozer struct {
	writer    ReminderWriter
	durations SnoozeDurationSource
	now       func() time.Time
	loc       *time.Location
	log       *logger.Logger
}

type SnoozerOption func(*Snoozer)

func WithSnoozeClock(now func() time.Time) SnoozerOption {
	return func(s *Snoozer) {
		if now != nil {
			s.now = now
		}
	}
}

func WithSnoozeLocation(loc *time.Location) SnoozerOption {
	return func(s *Snoozer) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithSnoozeLogger(l *logger.Logger) SnoozerOption {
	return func(s *Snoozer) {
		if l != nil {
			s.log = l
		}
	}
}

func NewSnoozer(writer ReminderWriter, durations SnoozeDurationSource, opts ...SnoozerOption) *Snoozer {
	s := &Snoozer{
		writer:    writer,
		durations: durations,
		now:       time.Now,
		loc:       time.Local,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("snooze")
	return s
}

func ValidSnoozeMinutes(n int) bool {
	for _, choice := range SnoozeChoices {
		if n == choice {
			return true
		}
	}
	return false
}

func (s *Snoozer) minutes(ctx context.Context) int {
	if s.durations == nil {
		return DefaultSnoozeMinutes
	}
	n := s.durations.SnoozeMinutes(ctx)
	if !ValidSnoozeMinutes(n) {
		return DefaultSnoozeMinutes
	}
	return n
}

// Target returns the local date and minute a snooze issued at now lands on.
func Target(now time.Time, minutes int, loc *time.Location) (model.CalendarDate, model.ClockTime) {
	if loc == nil {
		loc = time.Local
	}
	at := now.In(loc).Add(time.Duration(minutes) * time.Minute)
	return model.DateOf(at), model.ClockOf(at)
}

func (s *Snoozer) Snooze(ctx context.Context, rec model.ReminderRecord) (model.ReminderRecord, error) {
	if rec.IsEmpty() {
		return model.ReminderRecord{}, ErrNothingToSnooze
	}
	minutes := s.minutes(ctx)
	date, clock := Target(s.now(), minutes, s.loc)
	next := rec.Snoozed(date, clock)

	saved, err := s.writer.SaveReminder(ctx, next)
	if err != nil {
		s.log.WithError(err).Warnw("snooze save failed", "date", date, "time", clock)
		return model.ReminderRecord{}, fmt.Errorf("scheduler: snooze to %s %s: %w", date, clock, err)
	}
	s.log.Infow("snoozed", "from", rec.Date, "date", date, "time", clock, "minutes", minutes)
	if saved.IsEmpty() {
		saved = next
	}
	return saved, nil
}
