package day

import (
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/daybook/internal/model"
)

// Edit replaces the pending diary text of date and restarts the quiet-period
// timer. The text is saved once no edit arrives for the autosave delay. An
// edit for any day other than the open one fails with ErrStale.
//
// UpdateEdited is published once per quiet period, when the edit becomes
// pending.
func (a *Aggregator) Edit(date model.CalendarDate, text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := a.checkDayLocked(date); err != nil {
		return err
	}
	a.buffer = text
	a.editSeq++
	seq := a.editSeq
	started := a.timer == nil
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() { a.flush(seq) })
	if started {
		a.publishLocked(Update{Kind: UpdateEdited, View: cloneView(a.view)})
	}
	return nil
}

// Pending reports whether an edit is waiting for its quiet period to end.
func (a *Aggregator) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timer != nil
}

func (a *Aggregator) flush(seq uint64) {
	a.mu.Lock()
	if a.closed || !a.open || a.editSeq != seq {
		a.mu.Unlock()
		return
	}
	a.timer = nil
	a.saveSeq++
	token := a.saveSeq
	gen := a.gen
	date := a.view.Date
	text := a.buffer
	ctx := a.baseCtx
	a.mu.Unlock()

	flushID := uuid.NewString()
	log := a.log.WithFields("flush_id", flushID, "date", date)
	entry, err := a.backend.SaveEntryText(ctx, date, text)
	a.metrics.Autosave(err)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		log.WithError(err).Warnw("autosave failed")
		if a.gen == gen && a.open && a.saveSeq == token {
			a.publishLocked(Update{Kind: UpdateSaveFailed, View: cloneView(a.view), Err: err})
		}
		return
	}
	if a.gen != gen || !a.open || a.view.Date != date {
		a.metrics.Stale("autosave")
		log.Debugw("discarding stale autosave response")
		return
	}
	if a.saveSeq != token {
		a.metrics.Stale("autosave")
		log.Debugw("discarding superseded autosave response")
		return
	}
	if entry.IsEmpty() {
		a.view.Diary = nil
	} else {
		entry.Date = date
		a.view.Diary = &entry
	}
	log.Debugw("autosaved", "chars", len(text))
	a.publishLocked(Update{Kind: UpdateSaved, View: cloneView(a.view)})
}

