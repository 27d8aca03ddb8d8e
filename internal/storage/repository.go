package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

type PreferenceStore interface {
	GetPreference(ctx context.Context, key string) (Preference, error)
	PutPreference(ctx context.Context, key, value string) error
	DeletePreference(ctx context.Context, key string) error
	ListPreferences(ctx context.Context) ([]Preference, error)
}

type NotificationLog interface {
	AppendNotification(ctx context.Context, in NotificationLogEntry) (int64, error)
	MarkNotificationAction(ctx context.Context, id int64, action string) error
	ListNotifications(ctx context.Context, filter NotificationLogFilter) ([]NotificationLogEntry, error)
}

type Repository interface {
	PreferenceStore
	NotificationLog
}
