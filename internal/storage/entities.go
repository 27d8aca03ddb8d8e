package storage

import "time"

type Preference struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

type NotificationLogEntry struct {
	ID           int64
	ReminderDate string
	ReminderTime string
	Body         string
	Action       string
	PresentedAt  time.Time
}

type NotificationLogFilter struct {
	Since  *time.Time
	Limit  int
	Offset int
}
