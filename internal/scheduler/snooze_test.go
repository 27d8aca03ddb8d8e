package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/daybook/internal/model"
)

type recordingWriter struct {
	saved []model.ReminderRecord
	err   error
}

func (w *recordingWriter) SaveReminder(_ context.Context, rec model.ReminderRecord) (model.ReminderRecord, error) {
	if w.err != nil {
		return model.ReminderRecord{}, w.err
	}
	w.saved = append(w.saved, rec)
	return rec, nil
}

type fixedDuration int

func (d fixedDuration) SnoozeMinutes(context.Context) int { return int(d) }

func TestSnoozeCrossesMidnight(t *testing.T) {
	writer := &recordingWriter{}
	loc := time.FixedZone("test", 2*3600)
	now := time.Date(2026, 2, 9, 23, 58, 0, 0, loc)
	s := NewSnoozer(writer, fixedDuration(5), WithSnoozeClock(func() time.Time { return now }), WithSnoozeLocation(loc))

	orig := model.ReminderRecord{Date: "2026-02-09", Time: model.ClockPtr("23:58"), Text: "call mom"}
	next, err := s.Snooze(t.Context(), orig)
	if err != nil {
		t.Fatalf("snooze: %v", err)
	}
	if next.Date != "2026-02-10" || next.Time == nil || *next.Time != "00:03" || next.Text != "Snoozed: call mom" {
		t.Fatalf("unexpected snoozed record: %+v", next)
	}
	if len(writer.saved) != 1 || writer.saved[0].Date != "2026-02-10" {
		t.Fatalf("expected one write to the new date, got %+v", writer.saved)
	}
	if orig.Text != "call mom" || *orig.Time != "23:58" {
		t.Fatalf("original mutated: %+v", orig)
	}
}

func TestSnoozeDurationFallback(t *testing.T) {
	cases := []struct {
		name    string
		minutes int
		want    model.ClockTime
	}{
		{name: "ten", minutes: 10, want: "12:10"},
		{name: "thirty", minutes: 30, want: "12:30"},
		{name: "unsupported falls back", minutes: 7, want: "12:05"},
		{name: "zero falls back", minutes: 0, want: "12:05"},
	}
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			writer := &recordingWriter{}
			s := NewSnoozer(writer, fixedDuration(tc.minutes), WithSnoozeClock(func() time.Time { return now }), WithSnoozeLocation(time.UTC))
			next, err := s.Snooze(t.Context(), model.ReminderRecord{Date: "2026-02-09", Text: "x"})
			if err != nil {
				t.Fatalf("snooze: %v", err)
			}
			if *next.Time != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, *next.Time)
			}
		})
	}
}

func TestSnoozeErrors(t *testing.T) {
	s := NewSnoozer(&recordingWriter{err: errors.New("offline")}, nil)
	if _, err := s.Snooze(t.Context(), model.ReminderRecord{Date: "2026-02-09", Text: "x"}); err == nil {
		t.Fatal("expected save error")
	}
	if _, err := s.Snooze(t.Context(), model.ReminderRecord{Date: "2026-02-09"}); !errors.Is(err, ErrNothingToSnooze) {
		t.Fatalf("expected ErrNothingToSnooze, got %v", err)
	}
}
