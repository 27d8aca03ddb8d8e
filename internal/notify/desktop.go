package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/sandeepkv93/daybook/internal/logger"
)

type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// DesktopSink shows notifications through notify-send on linux and osascript
// on darwin. The command blocks until the user answers, so it runs on its own
// goroutine and reports the chosen action through Notification.Respond.
type DesktopSink struct {
	GOOS string
	Run  CommandRunner
	log  *logger.Logger
}

func NewDesktopSink(log *logger.Logger) *DesktopSink {
	if log == nil {
		log = logger.Nop()
	}
	return &DesktopSink{GOOS: runtime.GOOS, Run: execRunner, log: log.WithComponent("desktop")}
}

func (d *DesktopSink) Name() string { return "desktop" }

func (d *DesktopSink) Show(ctx context.Context, n Notification) error {
	name, args, err := d.command(n)
	if err != nil {
		return err
	}
	run := d.Run
	if run == nil {
		run = execRunner
	}
	waitCtx := context.WithoutCancel(ctx)
	go func() {
		out, runErr := run(waitCtx, name, args...)
		if runErr != nil {
			d.log.WithError(runErr).Warnw("desktop notification failed", "id", n.ID)
			return
		}
		if action, ok := d.parseAction(string(out)); ok {
			n.Respond(action)
		}
	}()
	return nil
}

func (d *DesktopSink) command(n Notification) (string, []string, error) {
	switch d.GOOS {
	case "linux":
		args := []string{"--app-name=daybook", "--wait"}
		if n.RequireInteraction {
			args = append(args, "--urgency=critical")
		}
		if n.Icon != "" {
			args = append(args, "--icon="+n.Icon)
		}
		args = append(args, "--action=default=Open")
		for _, a := range n.Actions {
			args = append(args, fmt.Sprintf("--action=%s=%s", a.ID, a.Title))
		}
		args = append(args, n.Title, n.Body)
		return "notify-send", args, nil
	case "darwin":
		buttons := []string{`"Dismiss"`}
		for _, a := range n.Actions {
			buttons = append(buttons, `"`+escapeAppleScript(a.Title)+`"`)
		}
		script := fmt.Sprintf(`display alert "%s" message "%s" buttons {%s} default button "Dismiss"`,
			escapeAppleScript(n.Title), escapeAppleScript(n.Body), strings.Join(buttons, ", "))
		return "osascript", []string{"-e", script}, nil
	default:
		return "", nil, fmt.Errorf("notify: desktop notifications unsupported on %s", d.GOOS)
	}
}

func (d *DesktopSink) parseAction(out string) (string, bool) {
	out = strings.TrimSpace(out)
	switch d.GOOS {
	case "linux":
		switch out {
		case "default":
			return ActionBody, true
		case "":
			return "", false
		default:
			return out, true
		}
	case "darwin":
		if strings.Contains(out, "button returned:"+SnoozeAction.Title) {
			return ActionSnooze, true
		}
	}
	return "", false
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
