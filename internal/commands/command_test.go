package commands

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/daybook/internal/model"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/open 2026-02-09", TypeOpen},
		{"open tomorrow", TypeOpen},
		{"/notify on", TypeNotify},
		{"sound OFF", TypeSound},
		{"/snooze 15", TypeSnooze},
		{"todo water the plants", TypeTodo},
		{"note", TypeNote},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseArguments(t *testing.T) {
	cmd, err := Parse("/snooze 10m")
	if err != nil || cmd.Snooze.Minutes != 10 {
		t.Fatalf("unexpected snooze parse: %+v %v", cmd, err)
	}
	cmd, err = Parse("notify off")
	if err != nil || cmd.Toggle.Enabled {
		t.Fatalf("unexpected toggle parse: %+v %v", cmd, err)
	}
	cmd, err = Parse("/todo  buy   milk ")
	if err != nil || cmd.Text.Text != "buy milk" {
		t.Fatalf("unexpected todo parse: %+v %v", cmd, err)
	}
}

func TestParseInvalidArguments(t *testing.T) {
	for _, in := range []string{"/open", "/open 09-02-2026", "/notify maybe", "/snooze soon", "/snooze -5", "/todo"} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse("  / ")
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
		t.Fatalf("expected empty input error, got %v", err)
	}
}

func TestResolveDate(t *testing.T) {
	today := model.CalendarDate("2026-02-28")
	cases := map[string]model.CalendarDate{
		"today":      "2026-02-28",
		"tomorrow":   "2026-03-01",
		"yesterday":  "2026-02-27",
		"+7":         "2026-03-07",
		"-28":        "2026-01-31",
		"2025-12-25": "2025-12-25",
	}
	for target, want := range cases {
		got, err := ResolveDate(target, today)
		if err != nil || got != want {
			t.Fatalf("ResolveDate(%q) = %q %v, want %q", target, got, err, want)
		}
	}
}

func TestExecuteDispatch(t *testing.T) {
	var opened string
	handlers := Handlers{
		Open: func(a OpenArgs) (Result, error) {
			opened = a.Target
			return Result{Message: "opened"}, nil
		},
	}
	cmd, _ := Parse("/open today")
	res, err := Execute(cmd, handlers)
	if err != nil || res.Message != "opened" || opened != "today" {
		t.Fatalf("unexpected execute result: %+v %v", res, err)
	}

	cmd, _ = Parse("/sound on")
	_, err = Execute(cmd, handlers)
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected handler missing, got %v", err)
	}
}
