package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/daybook/internal/model"
)

type Type string

const (
	TypeOpen   Type = "open"
	TypeNotify Type = "notify"
	TypeSound  Type = "sound"
	TypeSnooze Type = "snooze"
	TypeTodo   Type = "todo"
	TypeNote   Type = "note"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// OpenArgs.Target is a YYYY-MM-DD date, today, tomorrow, yesterday or a signed
// day offset such as +2 or -1.
type OpenArgs struct {
	Target string
}

type ToggleArgs struct {
	Enabled bool
}

type SnoozeArgs struct {
	Minutes int
}

type TextArgs struct {
	Text string
}

type Command struct {
	Type   Type
	Raw    string
	Open   *OpenArgs
	Toggle *ToggleArgs
	Snooze *SnoozeArgs
	Text   *TextArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeOpen:
		return parseOpen(input, args)
	case TypeNotify, TypeSound:
		return parseToggle(input, Type(head), args)
	case TypeSnooze:
		return parseSnooze(input, args)
	case TypeTodo, TypeNote:
		return parseText(input, Type(head), args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseOpen(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("open requires a date")
	}
	target := strings.ToLower(args[0])
	if _, err := ResolveDate(target, "2000-01-01"); err != nil {
		return Command{}, err
	}
	return Command{Type: TypeOpen, Raw: raw, Open: &OpenArgs{Target: target}}, nil
}

func parseToggle(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("%s requires on or off", typ)
	}
	switch strings.ToLower(args[0]) {
	case "on":
		return Command{Type: typ, Raw: raw, Toggle: &ToggleArgs{Enabled: true}}, nil
	case "off":
		return Command{Type: typ, Raw: raw, Toggle: &ToggleArgs{Enabled: false}}, nil
	default:
		return Command{}, invalid("%s requires on or off, got %q", typ, args[0])
	}
}

func parseSnooze(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("snooze requires a duration in minutes")
	}
	minutes, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(args[0]), "m"))
	if err != nil || minutes <= 0 {
		return Command{}, invalid("snooze duration must be a positive number of minutes, got %q", args[0])
	}
	return Command{Type: TypeSnooze, Raw: raw, Snooze: &SnoozeArgs{Minutes: minutes}}, nil
}

func parseText(raw string, typ Type, args []string) (Command, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if typ == TypeTodo && text == "" {
		return Command{}, invalid("todo requires text")
	}
	return Command{Type: typ, Raw: raw, Text: &TextArgs{Text: text}}, nil
}

// ResolveDate turns an open target into a calendar date relative to today.
func ResolveDate(target string, today model.CalendarDate) (model.CalendarDate, error) {
	switch target {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	case "yesterday":
		return today.AddDays(-1), nil
	}
	if strings.HasPrefix(target, "+") || strings.HasPrefix(target, "-") {
		n, err := strconv.Atoi(target)
		if err != nil {
			return "", invalid("invalid day offset %q", target)
		}
		return today.AddDays(n), nil
	}
	date, err := model.ParseDate(target)
	if err != nil {
		return "", invalid("invalid date %q, want YYYY-MM-DD", target)
	}
	return date, nil
}
