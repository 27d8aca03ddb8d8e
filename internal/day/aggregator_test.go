package day

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sandeepkv93/daybook/internal/model"
)

type saveCall struct {
	date model.CalendarDate
	text string
}

type fakeBackend struct {
	mu        sync.Mutex
	entries   map[model.CalendarDate]string
	notes     map[model.CalendarDate]string
	todos     map[model.CalendarDate][]model.TodoItem
	noteErr   error
	gates     map[model.CalendarDate]chan struct{}
	fetching  chan model.CalendarDate
	saves     []saveCall
	saveGate  chan struct{}
	saving    chan struct{}
	saveErr   error
	todoSaves int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		entries:  map[model.CalendarDate]string{},
		notes:    map[model.CalendarDate]string{},
		todos:    map[model.CalendarDate][]model.TodoItem{},
		gates:    map[model.CalendarDate]chan struct{}{},
		fetching: make(chan model.CalendarDate, 8),
		saving:   make(chan struct{}, 8),
	}
}

func (f *fakeBackend) GetEntry(_ context.Context, date model.CalendarDate) (model.DiaryEntry, error) {
	f.mu.Lock()
	gate := f.gates[date]
	f.mu.Unlock()
	f.fetching <- date
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return model.DiaryEntry{Date: date, Text: f.entries[date], Tags: []string{}}, nil
}

func (f *fakeBackend) GetNote(_ context.Context, date model.CalendarDate) (model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.noteErr != nil {
		return model.Note{}, f.noteErr
	}
	return model.Note{Date: date, Text: f.notes[date]}, nil
}

func (f *fakeBackend) GetReminder(_ context.Context, date model.CalendarDate) (model.ReminderRecord, error) {
	return model.ReminderRecord{Date: date, Time: model.ClockPtr("08:00"), Text: "wake " + string(date)}, nil
}

func (f *fakeBackend) GetTodos(_ context.Context, date model.CalendarDate) ([]model.TodoItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.TodoItem{}, f.todos[date]...), nil
}

func (f *fakeBackend) SaveEntryText(_ context.Context, date model.CalendarDate, text string) (model.DiaryEntry, error) {
	f.mu.Lock()
	f.saves = append(f.saves, saveCall{date: date, text: text})
	gate := f.saveGate
	err := f.saveErr
	f.mu.Unlock()
	f.saving <- struct{}{}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return model.DiaryEntry{}, err
	}
	return model.DiaryEntry{Date: date, Text: text, Tags: []string{}}, nil
}

func (f *fakeBackend) SaveNote(_ context.Context, date model.CalendarDate, text string) (model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes[date] = text
	return model.Note{Date: date, Text: text}, nil
}

func (f *fakeBackend) SaveTodos(_ context.Context, date model.CalendarDate, items []model.TodoItem) ([]model.TodoItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.todoSaves++
	f.todos[date] = append([]model.TodoItem{}, items...)
	return items, nil
}

func (f *fakeBackend) saveCalls() []saveCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]saveCall{}, f.saves...)
}

func newAggregator(t *testing.T, b *fakeBackend, delay time.Duration) *Aggregator {
	t.Helper()
	a := New(b, WithAutosaveDelay(delay))
	t.Cleanup(a.Close)
	return a
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func waitSignal[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for signal")
		var zero T
		return zero
	}
}

func TestOpenDayAggregates(t *testing.T) {
	b := newFakeBackend()
	b.entries["2026-02-09"] = "dear diary"
	b.notes["2026-02-09"] = "buy stamps"
	b.todos["2026-02-09"] = []model.TodoItem{{ID: "t1", Text: "milk"}}
	a := newAggregator(t, b, time.Second)

	view, err := a.OpenDay(t.Context(), "2026-02-09")
	if err != nil {
		t.Fatalf("open day: %v", err)
	}
	if view.Diary == nil || view.Diary.Text != "dear diary" || view.Note == nil || view.Note.Text != "buy stamps" {
		t.Fatalf("unexpected view: %+v", view)
	}
	if len(view.Reminders) != 1 || len(view.Todos) != 1 || view.Loading {
		t.Fatalf("unexpected lists: %+v", view)
	}
	if a.Text() != "dear diary" {
		t.Fatalf("expected buffer seeded with diary text, got %q", a.Text())
	}
	if u := waitSignal(t, a.Updates()); u.Kind != UpdateLoaded || u.View.Date != "2026-02-09" {
		t.Fatalf("unexpected update: %+v", u)
	}
}

func TestOpenDayFailureYieldsEmptyDay(t *testing.T) {
	b := newFakeBackend()
	b.entries["2026-02-09"] = "dear diary"
	b.noteErr = errors.New("500")
	a := newAggregator(t, b, time.Second)

	view, err := a.OpenDay(t.Context(), "2026-02-09")
	if err == nil {
		t.Fatal("expected load error to be reported")
	}
	if view.Diary != nil || view.Note != nil || len(view.Reminders) != 0 || len(view.Todos) != 0 {
		t.Fatalf("expected empty day, got %+v", view)
	}
	current, open := a.Current()
	if !open || current.Date != "2026-02-09" || a.Text() != "" {
		t.Fatalf("expected open empty day with empty buffer, got %+v open=%v text=%q", current, open, a.Text())
	}
}

func TestLateResponseDoesNotOverwriteNewerDay(t *testing.T) {
	b := newFakeBackend()
	b.entries["2026-02-09"] = "day one"
	b.entries["2026-02-10"] = "day two"
	gate := make(chan struct{})
	b.gates["2026-02-09"] = gate
	a := newAggregator(t, b, time.Second)

	firstErr := make(chan error, 1)
	go func() {
		_, err := a.OpenDay(context.Background(), "2026-02-09")
		firstErr <- err
	}()
	if d := waitSignal[model.CalendarDate](t, b.fetching); d != "2026-02-09" {
		t.Fatalf("unexpected first fetch %q", d)
	}

	if _, err := a.OpenDay(t.Context(), "2026-02-10"); err != nil {
		t.Fatalf("open second day: %v", err)
	}
	close(gate)
	if err := waitSignal[error](t, firstErr); !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale for late response, got %v", err)
	}

	view, _ := a.Current()
	if view.Date != "2026-02-10" || view.DiaryText() != "day two" || a.Text() != "day two" {
		t.Fatalf("newer day overwritten: %+v text=%q", view, a.Text())
	}
}

func TestDayChangeDropsPendingEdit(t *testing.T) {
	b := newFakeBackend()
	a := newAggregator(t, b, 50*time.Millisecond)

	if _, err := a.OpenDay(t.Context(), "2026-02-09"); err != nil {
		t.Fatalf("open day: %v", err)
	}
	if err := a.Edit("2026-02-09", "unsaved thought"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if _, err := a.OpenDay(t.Context(), "2026-02-10"); err != nil {
		t.Fatalf("switch day: %v", err)
	}
	time.Sleep(150 * time.Millisecond)
	if calls := b.saveCalls(); len(calls) != 0 {
		t.Fatalf("expected no saves after day change, got %+v", calls)
	}
	if a.Text() != "" {
		t.Fatalf("expected buffer of new day, got %q", a.Text())
	}
}

func TestEditsCoalesceIntoOneSave(t *testing.T) {
	b := newFakeBackend()
	a := newAggregator(t, b, 40*time.Millisecond)
	if _, err := a.OpenDay(t.Context(), "2026-02-09"); err != nil {
		t.Fatalf("open day: %v", err)
	}

	for _, text := range []string{"h", "he", "hel", "hello"} {
		if err := a.Edit("2026-02-09", text); err != nil {
			t.Fatalf("edit: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	waitSignal[struct{}](t, b.saving)
	eventually(t, func() bool {
		view, _ := a.Current()
		return view.DiaryText() == "hello"
	})

	calls := b.saveCalls()
	if len(calls) != 1 || calls[0].text != "hello" || calls[0].date != "2026-02-09" {
		t.Fatalf("expected single save of full text, got %+v", calls)
	}
	if a.Pending() {
		t.Fatal("expected no pending edit after flush")
	}
}

func TestEditRejectedOutsideOpenDay(t *testing.T) {
	b := newFakeBackend()
	gate := make(chan struct{})
	b.gates["2026-02-09"] = gate
	a := New(b, WithAutosaveDelay(time.Second))

	if err := a.Edit("2026-02-09", "x"); !errors.Is(err, ErrNoDay) {
		t.Fatalf("expected ErrNoDay, got %v", err)
	}

	done := make(chan struct{})
	go func() {
		_, _ = a.OpenDay(context.Background(), "2026-02-09")
		close(done)
	}()
	waitSignal[model.CalendarDate](t, b.fetching)
	if err := a.Edit("2026-02-09", "x"); !errors.Is(err, ErrLoading) {
		t.Fatalf("expected ErrLoading, got %v", err)
	}
	close(gate)
	<-done

	a.Close()
	a.Close()
	if err := a.Edit("2026-02-09", "x"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := a.OpenDay(t.Context(), "2026-02-10"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed on open, got %v", err)
	}
}

func TestStaleSaveResponseNotMerged(t *testing.T) {
	b := newFakeBackend()
	b.entries["2026-02-10"] = "second day"
	b.saveGate = make(chan struct{})
	a := newAggregator(t, b, 10*time.Millisecond)

	if _, err := a.OpenDay(t.Context(), "2026-02-09"); err != nil {
		t.Fatalf("open day: %v", err)
	}
	if err := a.Edit("2026-02-09", "draft"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	waitSignal[struct{}](t, b.saving)

	if _, err := a.OpenDay(t.Context(), "2026-02-10"); err != nil {
		t.Fatalf("switch day: %v", err)
	}
	close(b.saveGate)
	time.Sleep(30 * time.Millisecond)

	view, _ := a.Current()
	if view.Date != "2026-02-10" || view.DiaryText() != "second day" {
		t.Fatalf("stale save merged into newer day: %+v", view)
	}
}

func TestSaveResponseLeavesBufferAlone(t *testing.T) {
	b := newFakeBackend()
	gate := make(chan struct{})
	b.saveGate = gate
	a := newAggregator(t, b, 10*time.Millisecond)

	if _, err := a.OpenDay(t.Context(), "2026-02-09"); err != nil {
		t.Fatalf("open day: %v", err)
	}
	if err := a.Edit("2026-02-09", "abc"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	waitSignal[struct{}](t, b.saving)

	b.mu.Lock()
	b.saveGate = nil
	b.mu.Unlock()
	if err := a.Edit("2026-02-09", "abcd"); err != nil {
		t.Fatalf("second edit: %v", err)
	}
	eventually(t, func() bool {
		view, _ := a.Current()
		return len(b.saveCalls()) == 2 && view.DiaryText() == "abcd"
	})

	close(gate)
	time.Sleep(30 * time.Millisecond)
	view, _ := a.Current()
	if view.DiaryText() != "abcd" {
		t.Fatalf("superseded save response applied: %q", view.DiaryText())
	}
	if a.Text() != "abcd" {
		t.Fatalf("buffer overwritten by save response: %q", a.Text())
	}
}

func TestSaveFailureKeepsBuffer(t *testing.T) {
	b := newFakeBackend()
	b.saveErr = errors.New("offline")
	a := newAggregator(t, b, 10*time.Millisecond)

	if _, err := a.OpenDay(t.Context(), "2026-02-09"); err != nil {
		t.Fatalf("open day: %v", err)
	}
	waitSignal(t, a.Updates())
	if err := a.Edit("2026-02-09", "keep me"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	for {
		u := waitSignal(t, a.Updates())
		if u.Kind == UpdateSaveFailed {
			break
		}
	}
	view, _ := a.Current()
	if a.Text() != "keep me" || view.Diary != nil {
		t.Fatalf("unexpected state after failed save: text=%q view=%+v", a.Text(), view)
	}
}

func TestTodoAndNoteEdits(t *testing.T) {
	b := newFakeBackend()
	a := newAggregator(t, b, time.Second)
	if _, err := a.OpenDay(t.Context(), "2026-02-09"); err != nil {
		t.Fatalf("open day: %v", err)
	}

	view, err := a.AddTodo(t.Context(), "2026-02-09", "  water plants ")
	if err != nil {
		t.Fatalf("add todo: %v", err)
	}
	if len(view.Todos) != 1 || view.Todos[0].Text != "water plants" || view.Todos[0].ID == "" {
		t.Fatalf("unexpected todos: %+v", view.Todos)
	}
	view, err = a.ToggleTodo(t.Context(), "2026-02-09", view.Todos[0].ID)
	if err != nil || !view.Todos[0].Completed {
		t.Fatalf("toggle todo: %+v %v", view.Todos, err)
	}
	if _, err := a.ToggleTodo(t.Context(), "2026-02-09", "missing"); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}

	view, err = a.SaveNote(t.Context(), "2026-02-09", "call the bank")
	if err != nil || view.Note == nil || view.Note.Text != "call the bank" {
		t.Fatalf("save note: %+v %v", view.Note, err)
	}

	a.CloseDay()
	a.CloseDay()
	if _, open := a.Current(); open {
		t.Fatal("expected no open day after CloseDay")
	}
	if _, err := a.SaveNote(t.Context(), "2026-02-09", "x"); !errors.Is(err, ErrNoDay) {
		t.Fatalf("expected ErrNoDay, got %v", err)
	}
}

func TestEditsForAnotherDayRejected(t *testing.T) {
	b := newFakeBackend()
	a := newAggregator(t, b, 10*time.Millisecond)
	if _, err := a.OpenDay(t.Context(), "2026-02-08"); err != nil {
		t.Fatalf("open day: %v", err)
	}

	if err := a.Edit("2026-02-07", "typed on the seventh"); !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale for edit of another day, got %v", err)
	}
	if _, err := a.SaveNote(t.Context(), "2026-02-07", "x"); !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale for note of another day, got %v", err)
	}
	if _, err := a.AddTodo(t.Context(), "2026-02-07", "x"); !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale for todo of another day, got %v", err)
	}
	time.Sleep(40 * time.Millisecond)
	if calls := b.saveCalls(); len(calls) != 0 {
		t.Fatalf("expected no saves, got %+v", calls)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.todoSaves != 0 || b.notes["2026-02-08"] != "" {
		t.Fatalf("another day was written: todos=%d notes=%+v", b.todoSaves, b.notes)
	}
}

func TestEditBurstPublishesOneEditedUpdate(t *testing.T) {
	b := newFakeBackend()
	a := New(b, WithAutosaveDelay(30*time.Millisecond), WithUpdateBuffer(4))
	t.Cleanup(a.Close)
	if _, err := a.OpenDay(t.Context(), "2026-02-09"); err != nil {
		t.Fatalf("open day: %v", err)
	}
	if u := waitSignal(t, a.Updates()); u.Kind != UpdateLoaded {
		t.Fatalf("unexpected update: %+v", u)
	}

	for i := 0; i < 20; i++ {
		if err := a.Edit("2026-02-09", strings.Repeat("a", i+1)); err != nil {
			t.Fatalf("edit: %v", err)
		}
	}
	if u := waitSignal(t, a.Updates()); u.Kind != UpdateEdited {
		t.Fatalf("expected edited update, got %+v", u)
	}
	if u := waitSignal(t, a.Updates()); u.Kind != UpdateSaved || u.View.DiaryText() != strings.Repeat("a", 20) {
		t.Fatalf("expected saved update after burst, got %+v", u)
	}
	if a.Dropped() != 0 {
		t.Fatalf("expected no dropped updates, got %d", a.Dropped())
	}
}
