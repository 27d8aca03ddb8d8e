package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/sandeepkv93/daybook/internal/model"
)

func datePath(resource string, date model.CalendarDate) string {
	return "/api/" + resource + "/" + url.PathEscape(string(date))
}

// GetReminder returns the reminder stored for date. A date without a reminder
// yields a record with empty text and no time.
func (c *Client) GetReminder(ctx context.Context, date model.CalendarDate) (model.ReminderRecord, error) {
	var out reminderJSON
	if err := c.doJSON(ctx, http.MethodGet, datePath("reminders", date), nil, &out); err != nil {
		return model.ReminderRecord{}, err
	}
	return out.toModel(date), nil
}

// SaveReminder upserts the single reminder of rec.Date.
func (c *Client) SaveReminder(ctx context.Context, rec model.ReminderRecord) (model.ReminderRecord, error) {
	in := reminderJSON{Text: &rec.Text}
	if clock, ok := rec.Clock(); ok {
		s := string(clock)
		in.Time = &s
	}
	var out reminderJSON
	if err := c.doJSON(ctx, http.MethodPost, datePath("reminders", rec.Date), in, &out); err != nil {
		return model.ReminderRecord{}, err
	}
	return out.toModel(rec.Date), nil
}

func (c *Client) GetNote(ctx context.Context, date model.CalendarDate) (model.Note, error) {
	var out noteJSON
	if err := c.doJSON(ctx, http.MethodGet, datePath("notes", date), nil, &out); err != nil {
		return model.Note{}, err
	}
	return out.toModel(date), nil
}

func (c *Client) SaveNote(ctx context.Context, date model.CalendarDate, text string) (model.Note, error) {
	var out noteJSON
	if err := c.doJSON(ctx, http.MethodPost, datePath("notes", date), noteJSON{Text: &text}, &out); err != nil {
		return model.Note{}, err
	}
	return out.toModel(date), nil
}

func (c *Client) GetEntry(ctx context.Context, date model.CalendarDate) (model.DiaryEntry, error) {
	var out entryJSON
	if err := c.doJSON(ctx, http.MethodGet, datePath("entries", date), nil, &out); err != nil {
		return model.DiaryEntry{}, err
	}
	return out.toModel(date), nil
}

// EntryUpdate is the multipart body of a diary save. Text is always sent; the
// image and tags only when set.
type EntryUpdate struct {
	Text      string
	Tags      []string
	Image     io.Reader
	ImageName string
}

func (c *Client) SaveEntry(ctx context.Context, date model.CalendarDate, in EntryUpdate) (model.DiaryEntry, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("text", in.Text); err != nil {
		return model.DiaryEntry{}, fmt.Errorf("backend: write text field: %w", err)
	}
	if in.Tags != nil {
		raw, err := json.Marshal(in.Tags)
		if err != nil {
			return model.DiaryEntry{}, fmt.Errorf("backend: encode tags: %w", err)
		}
		if err := mw.WriteField("tags", string(raw)); err != nil {
			return model.DiaryEntry{}, fmt.Errorf("backend: write tags field: %w", err)
		}
	}
	if in.Image != nil {
		name := filepath.Base(in.ImageName)
		if name == "." || name == "/" {
			name = "image"
		}
		part, err := mw.CreateFormFile("image", name)
		if err != nil {
			return model.DiaryEntry{}, fmt.Errorf("backend: create image part: %w", err)
		}
		if _, err := io.Copy(part, in.Image); err != nil {
			return model.DiaryEntry{}, fmt.Errorf("backend: copy image: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return model.DiaryEntry{}, fmt.Errorf("backend: close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(datePath("entries", date)), &buf)
	if err != nil {
		return model.DiaryEntry{}, fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var out entryJSON
	if err := c.do(req, &out); err != nil {
		return model.DiaryEntry{}, err
	}
	return out.toModel(date), nil
}

// SaveEntryText saves text as the full diary text of date.
func (c *Client) SaveEntryText(ctx context.Context, date model.CalendarDate, text string) (model.DiaryEntry, error) {
	return c.SaveEntry(ctx, date, EntryUpdate{Text: text})
}

func (c *Client) GetTodos(ctx context.Context, date model.CalendarDate) ([]model.TodoItem, error) {
	var out []todoJSON
	if err := c.doJSON(ctx, http.MethodGet, datePath("todos", date), nil, &out); err != nil {
		return nil, err
	}
	return todosToModel(out), nil
}

// SaveTodos replaces the whole todo list of date.
func (c *Client) SaveTodos(ctx context.Context, date model.CalendarDate, items []model.TodoItem) ([]model.TodoItem, error) {
	in := make([]todoJSON, 0, len(items))
	for _, item := range items {
		in = append(in, todoJSON{ID: item.ID, Text: item.Text, Completed: item.Completed})
	}
	var out []todoJSON
	if err := c.doJSON(ctx, http.MethodPost, datePath("todos", date), in, &out); err != nil {
		return nil, err
	}
	return todosToModel(out), nil
}

func todosToModel(in []todoJSON) []model.TodoItem {
	out := make([]model.TodoItem, 0, len(in))
	for _, item := range in {
		out = append(out, item.toModel())
	}
	return out
}

func monthPath(resource string, m model.Month) string {
	return fmt.Sprintf("/api/%s/month/%d/%d", resource, m.Year, int(m.Month))
}

// GetMonthReminders lists the reminders stored for any day of m.
func (c *Client) GetMonthReminders(ctx context.Context, m model.Month) ([]model.ReminderRecord, error) {
	var out []reminderJSON
	if err := c.doJSON(ctx, http.MethodGet, monthPath("reminders", m), nil, &out); err != nil {
		return nil, err
	}
	recs := make([]model.ReminderRecord, 0, len(out))
	for _, r := range out {
		recs = append(recs, r.toModel(""))
	}
	return recs, nil
}

// GetMonthTodos lists the todo items of every day of m.
func (c *Client) GetMonthTodos(ctx context.Context, m model.Month) ([]model.DatedTodo, error) {
	var out []todoJSON
	if err := c.doJSON(ctx, http.MethodGet, monthPath("todos", m), nil, &out); err != nil {
		return nil, err
	}
	todos := make([]model.DatedTodo, 0, len(out))
	for _, t := range out {
		todos = append(todos, model.DatedTodo{Date: model.CalendarDate(t.Date), Item: t.toModel()})
	}
	return todos, nil
}
