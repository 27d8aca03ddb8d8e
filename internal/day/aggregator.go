package day

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/daybook/internal/logger"
	"github.com/sandeepkv93/daybook/internal/metrics"
	"github.com/sandeepkv93/daybook/internal/model"
	"golang.org/x/sync/errgroup"
)

const DefaultAutosaveDelay = time.Second

var (
	ErrClosed  = errors.New("day: aggregator closed")
	ErrNoDay   = errors.New("day: no day is open")
	ErrLoading = errors.New("day: day is still loading")
	ErrStale   = errors.New("day: result belongs to a day that is no longer open")
)

type Source interface {
	GetEntry(ctx context.Context, date model.CalendarDate) (model.DiaryEntry, error)
	GetNote(ctx context.Context, date model.CalendarDate) (model.Note, error)
	GetReminder(ctx context.Context, date model.CalendarDate) (model.ReminderRecord, error)
	GetTodos(ctx context.Context, date model.CalendarDate) ([]model.TodoItem, error)
}

type Writer interface {
	SaveEntryText(ctx context.Context, date model.CalendarDate, text string) (model.DiaryEntry, error)
	SaveNote(ctx context.Context, date model.CalendarDate, text string) (model.Note, error)
	SaveTodos(ctx context.Context, date model.CalendarDate, items []model.TodoItem) ([]model.TodoItem, error)
}

type Backend interface {
	Source
	Writer
}

type UpdateKind string

const (
	UpdateLoaded     UpdateKind = "loaded"
	UpdateSaved      UpdateKind = "saved"
	UpdateSaveFailed UpdateKind = "save_failed"
	UpdateEdited     UpdateKind = "edited"
)

type Update struct {
	Kind UpdateKind
	View model.DayView
	Err  error
}

// Aggregator owns the single open day: its aggregated view, the pending diary
// edit buffer and the autosave timer. A generation counter is bumped on every
// open and close; any response carrying an older generation is discarded.
type Aggregator struct {
	backend Backend
	delay   time.Duration
	log     *logger.Logger
	metrics *metrics.Metrics

	baseCtx    context.Context
	cancelBase context.CancelFunc

	mu         sync.Mutex
	gen        uint64
	open       bool
	loading    bool
	closed     bool
	view       model.DayView
	buffer     string
	timer      *time.Timer
	editSeq    uint64
	saveSeq    uint64
	loadCancel context.CancelFunc

	updates chan Update
	dropped uint64
}

type Option func(*Aggregator)

func WithAutosaveDelay(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.delay = d
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

func WithUpdateBuffer(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.updates = make(chan Update, n)
		}
	}
}

func New(backend Backend, opts ...Option) *Aggregator {
	ctx, cancel := context.WithCancel(context.Background())
	a := &Aggregator{
		backend:    backend,
		delay:      DefaultAutosaveDelay,
		log:        logger.Nop(),
		baseCtx:    ctx,
		cancelBase: cancel,
		updates:    make(chan Update, 16),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.WithComponent("day")
	return a
}

// OpenDay closes the current day and loads date. The four resources are
// fetched in parallel; any failure yields an empty day. If another day was
// opened (or this one closed) while loading, ErrStale is returned and nothing
// is applied.
func (a *Aggregator) OpenDay(ctx context.Context, date model.CalendarDate) (model.DayView, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return model.EmptyDay(date), ErrClosed
	}
	a.closeDayLocked()
	gen := a.gen
	loadCtx, cancel := context.WithCancel(ctx)
	stopBase := context.AfterFunc(a.baseCtx, cancel)
	a.loadCancel = cancel
	a.open = true
	a.loading = true
	a.view = model.EmptyDay(date)
	a.view.Loading = true
	a.mu.Unlock()

	defer stopBase()
	defer cancel()

	view, err := a.fetch(loadCtx, date)
	a.metrics.DayLoad(err)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gen != gen || a.closed {
		a.metrics.Stale("day")
		a.log.Debugw("discarding stale day", "date", date)
		return view, ErrStale
	}
	a.loadCancel = nil
	a.loading = false
	if err != nil {
		a.log.WithError(err).Warnw("day load failed", "date", date)
		view = model.EmptyDay(date)
	}
	a.view = view
	a.buffer = view.DiaryText()
	a.publishLocked(Update{Kind: UpdateLoaded, View: cloneView(view), Err: err})
	return cloneView(view), err
}

func (a *Aggregator) fetch(ctx context.Context, date model.CalendarDate) (model.DayView, error) {
	var (
		entry    model.DiaryEntry
		note     model.Note
		reminder model.ReminderRecord
		todos    []model.TodoItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entry, err = a.backend.GetEntry(gctx, date)
		return wrap("entry", err)
	})
	g.Go(func() error {
		var err error
		note, err = a.backend.GetNote(gctx, date)
		return wrap("note", err)
	})
	g.Go(func() error {
		var err error
		reminder, err = a.backend.GetReminder(gctx, date)
		return wrap("reminder", err)
	})
	g.Go(func() error {
		var err error
		todos, err = a.backend.GetTodos(gctx, date)
		return wrap("todos", err)
	})
	if err := g.Wait(); err != nil {
		return model.EmptyDay(date), err
	}
	return model.NewDayView(date, entry, note, reminder, todos), nil
}

func wrap(resource string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("day: load %s: %w", resource, err)
}

// CloseDay discards the open day and any pending edit. Safe to call when no
// day is open.
func (a *Aggregator) CloseDay() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closeDayLocked()
}

func (a *Aggregator) closeDayLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if a.loadCancel != nil {
		a.loadCancel()
		a.loadCancel = nil
	}
	a.editSeq++
	a.gen++
	a.open = false
	a.loading = false
	a.view = model.DayView{}
	a.buffer = ""
}

// Close tears the aggregator down. Pending edits are dropped and later calls
// fail with ErrClosed.
func (a *Aggregator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closeDayLocked()
	a.closed = true
	a.cancelBase()
	close(a.updates)
}

// Current returns the open day view, or false when no day is open.
func (a *Aggregator) Current() (model.DayView, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.open {
		return model.DayView{}, false
	}
	return cloneView(a.view), true
}

// Text returns the pending diary text of the open day.
func (a *Aggregator) Text() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buffer
}

func (a *Aggregator) Updates() <-chan Update {
	return a.updates
}

func (a *Aggregator) Dropped() uint64 {
	return atomic.LoadUint64(&a.dropped)
}

func (a *Aggregator) publishLocked(u Update) {
	if a.closed {
		return
	}
	select {
	case a.updates <- u:
	default:
		atomic.AddUint64(&a.dropped, 1)
	}
}

func cloneView(v model.DayView) model.DayView {
	out := v
	if v.Diary != nil {
		d := *v.Diary
		d.Tags = append([]string(nil), v.Diary.Tags...)
		out.Diary = &d
	}
	if v.Note != nil {
		n := *v.Note
		out.Note = &n
	}
	out.Reminders = append([]model.ReminderRecord{}, v.Reminders...)
	out.Todos = append([]model.TodoItem{}, v.Todos...)
	return out
}
