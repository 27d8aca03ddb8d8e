package model

import (
	"errors"
	"testing"
	"time"
)

func TestDateAndClockOf(t *testing.T) {
	now := time.Date(2026, 3, 4, 7, 5, 59, 0, time.Local)
	if got := DateOf(now); got != "2026-03-04" {
		t.Fatalf("unexpected date: %q", got)
	}
	if got := ClockOf(now); got != "07:05" {
		t.Fatalf("unexpected clock: %q", got)
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2026-13-01"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	got, err := ParseDate(" 2026-02-28 ")
	if err != nil || got != "2026-02-28" {
		t.Fatalf("unexpected parse result: %q %v", got, err)
	}
}

func TestParseClockNormalizes(t *testing.T) {
	got, err := ParseClock("9:05")
	if err != nil {
		t.Fatalf("parse clock: %v", err)
	}
	if got != "09:05" {
		t.Fatalf("expected zero padded clock, got %q", got)
	}
	if _, err := ParseClock("25:00"); !errors.Is(err, ErrInvalidClock) {
		t.Fatalf("expected ErrInvalidClock, got %v", err)
	}
}

func TestAddDaysCrossesMonth(t *testing.T) {
	if got := CalendarDate("2026-02-28").AddDays(1); got != "2026-03-01" {
		t.Fatalf("unexpected next day: %q", got)
	}
	if got := CalendarDate("2026-01-01").AddDays(-1); got != "2025-12-31" {
		t.Fatalf("unexpected previous day: %q", got)
	}
}
