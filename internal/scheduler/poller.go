package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/daybook/internal/logger"
	"github.com/sandeepkv93/daybook/internal/metrics"
	"github.com/sandeepkv93/daybook/internal/model"
	"github.com/sandeepkv93/daybook/internal/notify"
)

const DefaultInterval = time.Minute

var ErrInvalidInterval = errors.New("scheduler: interval must be positive")

type ReminderSource interface {
	GetReminder(ctx context.Context, date model.CalendarDate) (model.ReminderRecord, error)
}

type PermissionChecker interface {
	Status(ctx context.Context) model.PermissionStatus
}

type AlertPresenter interface {
	Present(ctx context.Context, a notify.Alert) error
}

// Scheduler polls the backend for the reminder of the current local date and
// presents it when its HH:MM equals the current minute. At most one polling
// loop runs per Scheduler.
type Scheduler struct {
	source    ReminderSource
	perms     PermissionChecker
	presenter AlertPresenter

	interval time.Duration
	icon     string
	now      func() time.Time
	log      *logger.Logger
	metrics  *metrics.Metrics

	lifecycle sync.Mutex

	mu    sync.Mutex
	sound bool
	run   *runState
}

type runState struct {
	userID string
	cancel context.CancelFunc
	stopCh chan struct{}
	doneCh chan struct{}
	ticks  sync.WaitGroup
}

type Option func(*Scheduler)

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIcon(icon string) Option {
	return func(s *Scheduler) { s.icon = icon }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

func New(source ReminderSource, perms PermissionChecker, presenter AlertPresenter, opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		source:    source,
		perms:     perms,
		presenter: presenter,
		interval:  DefaultInterval,
		icon:      notify.DefaultIcon,
		now:       time.Now,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if source == nil || perms == nil || presenter == nil {
		return nil, errors.New("scheduler: source, permission checker and presenter are required")
	}
	s.log = s.log.WithComponent("scheduler")
	return s, nil
}

// Start begins polling for userID. A loop that is already running is stopped
// first, so repeated calls never stack loops.
func (s *Scheduler) Start(userID string) {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	run := &runState{
		userID: userID,
		cancel: cancel,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	s.mu.Lock()
	s.run = run
	s.mu.Unlock()

	s.log.Infow("poller started", "user", userID, "interval", s.interval)
	go s.loop(ctx, run)
}

// Stop ends polling and waits for in-flight ticks, so nothing is presented
// after it returns. Safe to call when stopped.
func (s *Scheduler) Stop() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	s.mu.Lock()
	run := s.run
	s.run = nil
	s.mu.Unlock()
	if run == nil {
		return
	}
	run.cancel()
	close(run.stopCh)
	<-run.doneCh
	run.ticks.Wait()
	s.log.Infow("poller stopped", "user", run.userID)
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run != nil
}

func (s *Scheduler) SetSoundEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sound = enabled
}

func (s *Scheduler) SoundEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sound
}

func (s *Scheduler) loop(ctx context.Context, run *runState) {
	defer close(run.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			run.ticks.Add(1)
			go func() {
				defer run.ticks.Done()
				s.runTick(ctx)
			}()
		case <-run.stopCh:
			return
		}
	}
}

func (s *Scheduler) runTick(ctx context.Context) {
	log := s.log.WithFields("tick_id", uuid.NewString())
	fired, err := s.Check(ctx)
	if err != nil {
		if ctx.Err() != nil {
			log.Debugw("tick abandoned", "reason", ctx.Err())
			return
		}
		log.WithError(err).Warnw("tick failed")
		return
	}
	if fired {
		log.Debugw("tick presented reminder")
	}
}

// Check runs a single poll: permission first, then the reminder of the current
// date. It reports whether a reminder was presented.
func (s *Scheduler) Check(ctx context.Context) (bool, error) {
	s.metrics.Tick()
	now := s.now()

	if status := s.perms.Status(ctx); status != model.PermissionGranted {
		return false, nil
	}

	date, clock := model.DateOf(now), model.ClockOf(now)
	rec, err := s.source.GetReminder(ctx, date)
	if err != nil {
		s.metrics.TickError("fetch")
		return false, fmt.Errorf("scheduler: fetch reminder %s: %w", date, err)
	}
	if !rec.DueAt(clock) {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	alert := notify.Alert{
		Title:    notify.DefaultTitle,
		Body:     rec.Text,
		Icon:     s.icon,
		Reminder: rec,
		Sound:    s.SoundEnabled(),
	}
	if err := s.presenter.Present(ctx, alert); err != nil {
		s.metrics.TickError("present")
		return true, fmt.Errorf("scheduler: present reminder %s %s: %w", date, clock, err)
	}
	return true, nil
}
