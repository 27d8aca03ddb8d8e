package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Open   func(OpenArgs) (Result, error)
	Notify func(ToggleArgs) (Result, error)
	Sound  func(ToggleArgs) (Result, error)
	Snooze func(SnoozeArgs) (Result, error)
	Todo   func(TextArgs) (Result, error)
	Note   func(TextArgs) (Result, error)
}

func missing(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeOpen:
		if handlers.Open == nil {
			return Result{}, missing("open")
		}
		return handlers.Open(*cmd.Open)
	case TypeNotify:
		if handlers.Notify == nil {
			return Result{}, missing("notify")
		}
		return handlers.Notify(*cmd.Toggle)
	case TypeSound:
		if handlers.Sound == nil {
			return Result{}, missing("sound")
		}
		return handlers.Sound(*cmd.Toggle)
	case TypeSnooze:
		if handlers.Snooze == nil {
			return Result{}, missing("snooze")
		}
		return handlers.Snooze(*cmd.Snooze)
	case TypeTodo:
		if handlers.Todo == nil {
			return Result{}, missing("todo")
		}
		return handlers.Todo(*cmd.Text)
	case TypeNote:
		if handlers.Note == nil {
			return Result{}, missing("note")
		}
		return handlers.Note(*cmd.Text)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
