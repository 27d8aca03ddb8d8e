package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "daybook-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func TestPreferenceUpsertAndList(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if _, err := repo.GetPreference(ctx, "snoozeDuration"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := repo.PutPreference(ctx, "snoozeDuration", "10"); err != nil {
		t.Fatalf("put preference: %v", err)
	}
	if err := repo.PutPreference(ctx, "snoozeDuration", "15"); err != nil {
		t.Fatalf("overwrite preference: %v", err)
	}
	if err := repo.PutPreference(ctx, "notificationsEnabled", "true"); err != nil {
		t.Fatalf("put second preference: %v", err)
	}

	got, err := repo.GetPreference(ctx, "snoozeDuration")
	if err != nil {
		t.Fatalf("get preference: %v", err)
	}
	if got.Value != "15" {
		t.Fatalf("expected overwritten value 15, got %q", got.Value)
	}

	all, err := repo.ListPreferences(ctx)
	if err != nil {
		t.Fatalf("list preferences: %v", err)
	}
	if len(all) != 2 || all[0].Key != "notificationsEnabled" || all[1].Key != "snoozeDuration" {
		t.Fatalf("unexpected preference list: %#v", all)
	}

	if err := repo.DeletePreference(ctx, "snoozeDuration"); err != nil {
		t.Fatalf("delete preference: %v", err)
	}
	if err := repo.DeletePreference(ctx, "snoozeDuration"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestPutPreferenceRejectsBlankKey(t *testing.T) {
	repo := setupRepo(t)
	if err := repo.PutPreference(context.Background(), "  ", "x"); err == nil {
		t.Fatal("expected error for blank key")
	}
}

func TestNotificationLogAppendListAndMark(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)

	ids := make([]int64, 0, 3)
	for i, body := range []string{"first", "second", "third"} {
		id, err := repo.AppendNotification(ctx, NotificationLogEntry{
			ReminderDate: "2026-02-09",
			ReminderTime: "09:00",
			Body:         body,
			PresentedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("append notification: %v", err)
		}
		ids = append(ids, id)
	}

	recent, err := repo.ListNotifications(ctx, NotificationLogFilter{Limit: 2})
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(recent) != 2 || recent[0].Body != "third" || recent[1].Body != "second" {
		t.Fatalf("unexpected recent notifications: %#v", recent)
	}

	since := base.Add(90 * time.Second)
	tail, err := repo.ListNotifications(ctx, NotificationLogFilter{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(tail) != 1 || tail[0].Body != "third" {
		t.Fatalf("unexpected since result: %#v", tail)
	}

	if err := repo.MarkNotificationAction(ctx, ids[0], "snooze"); err != nil {
		t.Fatalf("mark action: %v", err)
	}
	skipped, err := repo.ListNotifications(ctx, NotificationLogFilter{Offset: 2})
	if err != nil {
		t.Fatalf("list with offset: %v", err)
	}
	if len(skipped) != 1 || skipped[0].Action != "snooze" {
		t.Fatalf("expected marked oldest entry, got %#v", skipped)
	}

	if err := repo.MarkNotificationAction(ctx, 999, "snooze"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}
