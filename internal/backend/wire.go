package backend

import "github.com/sandeepkv93/daybook/internal/model"

type messageResponse struct {
	Message string `json:"message"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userJSON struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type loginResponse struct {
	Message string    `json:"message"`
	User    *userJSON `json:"user"`
}

type statusResponse struct {
	IsAuthenticated bool      `json:"is_authenticated"`
	User            *userJSON `json:"user"`
}

type entryJSON struct {
	Date     string   `json:"date,omitempty"`
	Text     *string  `json:"text"`
	ImageURL *string  `json:"imageUrl"`
	Tags     []string `json:"tags"`
}

type noteJSON struct {
	Date string  `json:"date,omitempty"`
	Text *string `json:"text"`
}

type reminderJSON struct {
	Date string  `json:"date,omitempty"`
	Text *string `json:"text"`
	Time *string `json:"time"`
}

type todoJSON struct {
	ID        string `json:"id"`
	Date      string `json:"date,omitempty"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (u *userJSON) toModel() model.User {
	if u == nil {
		return model.User{}
	}
	return model.User{ID: u.ID, Username: u.Username}
}

func (e entryJSON) toModel(date model.CalendarDate) model.DiaryEntry {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return model.DiaryEntry{Date: date, Text: deref(e.Text), ImageURL: deref(e.ImageURL), Tags: tags}
}

func (n noteJSON) toModel(date model.CalendarDate) model.Note {
	return model.Note{Date: date, Text: deref(n.Text)}
}

func (r reminderJSON) toModel(fallback model.CalendarDate) model.ReminderRecord {
	date := fallback
	if r.Date != "" {
		date = model.CalendarDate(r.Date)
	}
	out := model.ReminderRecord{Date: date, Text: deref(r.Text)}
	if r.Time != nil && *r.Time != "" {
		out.Time = model.ClockPtr(model.ClockTime(*r.Time))
	}
	return out
}

func (t todoJSON) toModel() model.TodoItem {
	return model.TodoItem{ID: t.ID, Text: t.Text, Completed: t.Completed}
}
