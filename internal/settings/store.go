package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/sandeepkv93/daybook/internal/logger"
	"github.com/sandeepkv93/daybook/internal/model"
	"github.com/sandeepkv93/daybook/internal/scheduler"
	"github.com/sandeepkv93/daybook/internal/storage"
)

const (
	KeyNotificationsEnabled = "notificationsEnabled"
	KeySoundEnabled         = "notificationSoundEnabled"
	KeySnoozeDuration       = "snoozeDuration"
	KeyPermission           = "notificationPermission"
)

var ErrInvalidSnooze = errors.New("settings: snooze duration must be one of 5, 10, 15, 30 minutes")

type Preferences struct {
	NotificationsEnabled bool
	SoundEnabled         bool
	SnoozeMinutes        int
	Permission           model.PermissionStatus
}

func DefaultPreferences() Preferences {
	return Preferences{
		SnoozeMinutes: scheduler.DefaultSnoozeMinutes,
		Permission:    model.PermissionDefault,
	}
}

// Store maps typed preferences onto the key/value preference table. Missing or
// malformed values read as defaults.
type Store struct {
	prefs    storage.PreferenceStore
	validate *validator.Validate
	log      *logger.Logger
}

func NewStore(prefs storage.PreferenceStore, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{prefs: prefs, validate: validator.New(), log: log.WithComponent("settings")}
}

func (s *Store) Load(ctx context.Context) (Preferences, error) {
	out := DefaultPreferences()
	items, err := s.prefs.ListPreferences(ctx)
	if err != nil {
		return out, fmt.Errorf("settings: load: %w", err)
	}
	for _, item := range items {
		switch item.Key {
		case KeyNotificationsEnabled:
			out.NotificationsEnabled = s.parseBool(item)
		case KeySoundEnabled:
			out.SoundEnabled = s.parseBool(item)
		case KeySnoozeDuration:
			if n, convErr := strconv.Atoi(item.Value); convErr == nil && scheduler.ValidSnoozeMinutes(n) {
				out.SnoozeMinutes = n
			} else {
				s.log.Warnw("ignoring malformed preference", "key", item.Key, "value", item.Value)
			}
		case KeyPermission:
			if status, parseErr := model.ParsePermission(item.Value); parseErr == nil {
				out.Permission = status
			}
		}
	}
	return out, nil
}

func (s *Store) parseBool(item storage.Preference) bool {
	v, err := strconv.ParseBool(item.Value)
	if err != nil {
		s.log.Warnw("ignoring malformed preference", "key", item.Key, "value", item.Value)
		return false
	}
	return v
}

func (s *Store) SetNotificationsEnabled(ctx context.Context, enabled bool) error {
	return s.put(ctx, KeyNotificationsEnabled, strconv.FormatBool(enabled))
}

func (s *Store) SetSoundEnabled(ctx context.Context, enabled bool) error {
	return s.put(ctx, KeySoundEnabled, strconv.FormatBool(enabled))
}

func (s *Store) SetSnoozeMinutes(ctx context.Context, minutes int) error {
	if err := s.validate.Var(minutes, "oneof=5 10 15 30"); err != nil {
		return fmt.Errorf("%w: got %d", ErrInvalidSnooze, minutes)
	}
	return s.put(ctx, KeySnoozeDuration, strconv.Itoa(minutes))
}

// SnoozeMinutes returns the stored snooze duration, or the default when unset.
func (s *Store) SnoozeMinutes(ctx context.Context) int {
	prefs, err := s.Load(ctx)
	if err != nil {
		s.log.WithError(err).Warnw("snooze duration unavailable, using default")
		return scheduler.DefaultSnoozeMinutes
	}
	return prefs.SnoozeMinutes
}

func (s *Store) LoadPermission(ctx context.Context) (model.PermissionStatus, error) {
	pref, err := s.prefs.GetPreference(ctx, KeyPermission)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.PermissionDefault, nil
		}
		return "", err
	}
	return model.ParsePermission(pref.Value)
}

func (s *Store) SavePermission(ctx context.Context, status model.PermissionStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidPermission, status)
	}
	return s.put(ctx, KeyPermission, string(status))
}

// ResetPermission forgets the recorded answer so the next enable prompts again.
func (s *Store) ResetPermission(ctx context.Context) error {
	err := s.prefs.DeletePreference(ctx, KeyPermission)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}

func (s *Store) put(ctx context.Context, key, value string) error {
	if err := s.prefs.PutPreference(ctx, key, value); err != nil {
		return fmt.Errorf("settings: save %s: %w", key, err)
	}
	return nil
}
