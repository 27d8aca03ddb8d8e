package model

import (
	"errors"
	"fmt"
	"strings"
)

const SnoozedPrefix = "Snoozed: "

var ErrEmptyReminder = errors.New("model: reminder text is required")

// ReminderRecord is the single reminder the backend stores per date.
type ReminderRecord struct {
	Date CalendarDate
	Time *ClockTime
	Text string
}

func (r ReminderRecord) IsEmpty() bool {
	return strings.TrimSpace(r.Text) == ""
}

func (r ReminderRecord) Clock() (ClockTime, bool) {
	if r.Time == nil || *r.Time == "" {
		return "", false
	}
	return *r.Time, true
}

// DueAt reports whether the reminder fires at the given minute. Matching is an
// exact string comparison of HH:MM.
func (r ReminderRecord) DueAt(now ClockTime) bool {
	if r.Text == "" {
		return false
	}
	clock, ok := r.Clock()
	if !ok {
		return false
	}
	return clock == now
}

// Snoozed returns a new record carrying the snoozed text at date and clock.
func (r ReminderRecord) Snoozed(date CalendarDate, clock ClockTime) ReminderRecord {
	return ReminderRecord{
		Date: date,
		Time: &clock,
		Text: SnoozedPrefix + r.Text,
	}
}

func (r ReminderRecord) Validate() error {
	if !r.Date.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDate, r.Date)
	}
	if r.IsEmpty() {
		return ErrEmptyReminder
	}
	if clock, ok := r.Clock(); ok && !clock.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	return nil
}

func ClockPtr(c ClockTime) *ClockTime {
	return &c
}
