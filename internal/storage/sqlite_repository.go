package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Fixed-width so text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return &SQLiteRepository{db: db, now: time.Now}, nil
}

// OpenSQLite opens the database at path and applies pending migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) GetPreference(ctx context.Context, key string) (Preference, error) {
	row := r.db.QueryRowContext(ctx, `SELECT key, value, updated_at FROM preferences WHERE key = ?`, key)
	pref, err := scanPreference(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Preference{}, ErrNotFound
		}
		return Preference{}, err
	}
	return pref, nil
}

func (r *SQLiteRepository) PutPreference(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("storage: preference key is required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, mustTime(r.now()),
	)
	return err
}

func (r *SQLiteRepository) DeletePreference(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, key)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListPreferences(ctx context.Context) ([]Preference, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value, updated_at FROM preferences ORDER BY key ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Preference, 0)
	for rows.Next() {
		pref, scanErr := scanPreference(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, pref)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) AppendNotification(ctx context.Context, in NotificationLogEntry) (int64, error) {
	presented := in.PresentedAt
	if presented.IsZero() {
		presented = r.now()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO notification_log (reminder_date, reminder_time, body, action, presented_at)
		VALUES (?, ?, ?, ?, ?)`,
		in.ReminderDate, in.ReminderTime, in.Body, in.Action, mustTime(presented),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) MarkNotificationAction(ctx context.Context, id int64, action string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notification_log SET action = ? WHERE id = ?`, action, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListNotifications(ctx context.Context, filter NotificationLogFilter) ([]NotificationLogEntry, error) {
	query := `SELECT id, reminder_date, reminder_time, body, action, presented_at FROM notification_log`
	args := make([]any, 0, 3)
	if filter.Since != nil {
		query += ` WHERE presented_at >= ?`
		args = append(args, mustTime(*filter.Since))
	}
	query += ` ORDER BY presented_at DESC, id DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]NotificationLogEntry, 0)
	for rows.Next() {
		item, scanErr := scanNotification(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func applyPagination(args *[]any, limit, offset int) string {
	clause := ""
	if limit > 0 {
		clause += " LIMIT ?"
		*args = append(*args, limit)
	} else if offset > 0 {
		clause += " LIMIT -1"
	}
	if offset > 0 {
		clause += " OFFSET ?"
		*args = append(*args, offset)
	}
	return clause
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPreference(s scanner) (Preference, error) {
	var out Preference
	var updated string
	if err := s.Scan(&out.Key, &out.Value, &updated); err != nil {
		return Preference{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Preference{}, err
	}
	out.UpdatedAt = updatedAt
	return out, nil
}

func scanNotification(s scanner) (NotificationLogEntry, error) {
	var out NotificationLogEntry
	var presented string
	if err := s.Scan(&out.ID, &out.ReminderDate, &out.ReminderTime, &out.Body, &out.Action, &presented); err != nil {
		return NotificationLogEntry{}, err
	}
	presentedAt, err := parseRequiredTime(presented)
	if err != nil {
		return NotificationLogEntry{}, err
	}
	out.PresentedAt = presentedAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
