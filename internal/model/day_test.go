package model

import "testing"

func TestNewDayViewNormalizesEmptyResources(t *testing.T) {
	view := NewDayView("2026-02-09", DiaryEntry{}, Note{}, ReminderRecord{Time: ClockPtr("09:00")}, nil)
	if view.Diary != nil || view.Note != nil {
		t.Fatalf("expected nil diary and note, got %+v", view)
	}
	if len(view.Reminders) != 0 || len(view.Todos) != 0 {
		t.Fatalf("expected empty lists, got %+v", view)
	}
}

func TestNewDayViewKeepsImageOnlyEntry(t *testing.T) {
	view := NewDayView("2026-02-09", DiaryEntry{ImageURL: "/uploads/a.png"}, Note{Text: "n"}, ReminderRecord{Text: "r"}, []TodoItem{{ID: "t-1", Text: "a"}, {ID: "t-2", Text: "b", Completed: true}})
	if view.Diary == nil || view.Diary.Date != "2026-02-09" {
		t.Fatalf("expected image-only diary entry, got %+v", view.Diary)
	}
	if view.Note == nil || view.Note.Text != "n" {
		t.Fatalf("unexpected note: %+v", view.Note)
	}
	if len(view.Reminders) != 1 || view.Reminders[0].Date != "2026-02-09" {
		t.Fatalf("unexpected reminders: %+v", view.Reminders)
	}
	if view.OpenTodos() != 1 {
		t.Fatalf("expected one open todo, got %d", view.OpenTodos())
	}
}

func TestPermissionParse(t *testing.T) {
	for _, raw := range []string{"granted", "denied", "default"} {
		if _, err := ParsePermission(raw); err != nil {
			t.Fatalf("expected %q valid: %v", raw, err)
		}
	}
	if _, err := ParsePermission("maybe"); err == nil {
		t.Fatal("expected invalid permission error")
	}
}
