package settings

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/sandeepkv93/daybook/internal/logger"
	"github.com/sandeepkv93/daybook/internal/model"
)

const (
	MessagePermissionDenied  = "Notification permission denied by user. Run `daybook settings permission reset` to be asked again."
	MessagePermissionGranted = "Notification permission granted!"
	MessageEnabled           = "Notifications are enabled."
	MessageDisabled          = "Notifications are currently disabled."
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
)

// Outcome is the user-visible result of toggling notifications.
type Outcome struct {
	Enabled bool
	Level   Level
	Message string
}

type Poller interface {
	Start(userID string)
	Stop()
	SetSoundEnabled(enabled bool)
	Running() bool
}

type PermissionGateway interface {
	Status(ctx context.Context) model.PermissionStatus
	Request(ctx context.Context) bool
}

// Controller applies notification preferences to the poller for the signed-in
// user.
type Controller struct {
	store   *Store
	poller  Poller
	gateway PermissionGateway
	log     *logger.Logger

	mu   sync.Mutex
	user *model.User
}

func NewController(store *Store, poller Poller, gateway PermissionGateway, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{store: store, poller: poller, gateway: gateway, log: log.WithComponent("settings")}
}

// BeginSession applies stored preferences for user: the sound flag always, and
// the poller only when notifications are enabled.
func (c *Controller) BeginSession(ctx context.Context, user model.User) error {
	prefs, err := c.store.Load(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.user = &user
	c.mu.Unlock()

	c.poller.SetSoundEnabled(prefs.SoundEnabled)
	if prefs.NotificationsEnabled {
		c.poller.Start(userKey(user))
	} else {
		c.poller.Stop()
	}
	c.log.Infow("session started", "user", user.Username, "notifications", prefs.NotificationsEnabled, "sound", prefs.SoundEnabled)
	return nil
}

// EndSession stops the poller. Safe to call without an active session.
func (c *Controller) EndSession() {
	c.mu.Lock()
	user := c.user
	c.user = nil
	c.mu.Unlock()
	c.poller.Stop()
	if user != nil {
		c.log.Infow("session ended", "user", user.Username)
	}
}

func (c *Controller) sessionUser() (model.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return model.User{}, false
	}
	return *c.user, true
}

// SetNotificationsEnabled toggles reminders. Enabling without granted
// permission asks for it; if it is not granted the toggle reverts to off.
func (c *Controller) SetNotificationsEnabled(ctx context.Context, enabled bool) (Outcome, error) {
	if !enabled {
		c.poller.Stop()
		if err := c.store.SetNotificationsEnabled(ctx, false); err != nil {
			return Outcome{Enabled: false, Level: LevelInfo, Message: MessageDisabled}, err
		}
		return Outcome{Enabled: false, Level: LevelInfo, Message: MessageDisabled}, nil
	}

	out := Outcome{Enabled: true, Level: LevelInfo, Message: MessageEnabled}
	if c.gateway.Status(ctx) != model.PermissionGranted {
		if !c.gateway.Request(ctx) {
			c.poller.Stop()
			denied := Outcome{Enabled: false, Level: LevelWarning, Message: MessagePermissionDenied}
			if err := c.store.SetNotificationsEnabled(ctx, false); err != nil {
				return denied, err
			}
			return denied, nil
		}
		out = Outcome{Enabled: true, Level: LevelSuccess, Message: MessagePermissionGranted}
	}

	if err := c.store.SetNotificationsEnabled(ctx, true); err != nil {
		return Outcome{}, err
	}
	if user, ok := c.sessionUser(); ok {
		c.poller.Start(userKey(user))
	}
	return out, nil
}

func (c *Controller) SetSoundEnabled(ctx context.Context, enabled bool) error {
	if err := c.store.SetSoundEnabled(ctx, enabled); err != nil {
		return err
	}
	c.poller.SetSoundEnabled(enabled)
	return nil
}

func (c *Controller) SetSnoozeMinutes(ctx context.Context, minutes int) error {
	return c.store.SetSnoozeMinutes(ctx, minutes)
}

func (c *Controller) Preferences(ctx context.Context) (Preferences, error) {
	return c.store.Load(ctx)
}

func (c *Controller) PermissionStatus(ctx context.Context) model.PermissionStatus {
	return c.gateway.Status(ctx)
}

// ParseToggle accepts on/off style values from commands.
func ParseToggle(raw string) (bool, error) {
	switch raw {
	case "on", "yes", "enable", "enabled":
		return true, nil
	case "off", "no", "disable", "disabled":
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("settings: expected on or off, got %q", raw)
	}
	return v, nil
}

func userKey(u model.User) string {
	if u.ID != 0 {
		return strconv.FormatInt(u.ID, 10)
	}
	return u.Username
}
