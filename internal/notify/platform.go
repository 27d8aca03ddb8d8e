package notify

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/sandeepkv93/daybook/internal/model"
)

const PermissionQuestion = "Allow daybook to show reminder notifications?"

var ErrPromptUnavailable = errors.New("notify: no prompt available")

type ConsentStore interface {
	LoadPermission(ctx context.Context) (model.PermissionStatus, error)
	SavePermission(ctx context.Context, status model.PermissionStatus) error
}

type Prompter interface {
	Ask(ctx context.Context, question string) (bool, error)
}

// ConsentPlatform records the user's answer in a ConsentStore. Probe decides
// whether the host can show notifications at all; nil means always.
type ConsentPlatform struct {
	Store    ConsentStore
	Prompter Prompter
	Probe    func() bool
}

func (p *ConsentPlatform) Supported() bool {
	if p.Probe == nil {
		return true
	}
	return p.Probe()
}

func (p *ConsentPlatform) Permission(ctx context.Context) model.PermissionStatus {
	if p.Store == nil {
		return model.PermissionDefault
	}
	status, err := p.Store.LoadPermission(ctx)
	if err != nil || !status.IsValid() {
		return model.PermissionDefault
	}
	return status
}

func (p *ConsentPlatform) RequestPermission(ctx context.Context) (model.PermissionStatus, error) {
	if p.Prompter == nil {
		return model.PermissionDefault, ErrPromptUnavailable
	}
	ok, err := p.Prompter.Ask(ctx, PermissionQuestion)
	if err != nil {
		return model.PermissionDefault, err
	}
	status := model.PermissionDenied
	if ok {
		status = model.PermissionGranted
	}
	if p.Store != nil {
		if err := p.Store.SavePermission(ctx, status); err != nil {
			return status, fmt.Errorf("notify: record permission: %w", err)
		}
	}
	return status, nil
}

// DesktopAvailable reports whether a desktop notifier binary is on PATH.
func DesktopAvailable() bool {
	switch runtime.GOOS {
	case "linux":
		_, err := exec.LookPath("notify-send")
		return err == nil
	case "darwin":
		_, err := exec.LookPath("osascript")
		return err == nil
	default:
		return false
	}
}

// StdinPrompter asks y/n questions on a terminal. One goroutine owns the
// input for the prompter's lifetime; an Ask abandoned through its context
// leaves the next typed line to the following Ask.
type StdinPrompter struct {
	out   io.Writer
	in    *bufio.Reader
	once  sync.Once
	lines chan string
	err   error
}

func NewStdinPrompter(in io.Reader, out io.Writer) *StdinPrompter {
	p := &StdinPrompter{out: out, lines: make(chan string)}
	if in != nil {
		p.in = bufio.NewReader(in)
	}
	return p
}

func (p *StdinPrompter) readLines() {
	defer close(p.lines)
	for {
		line, err := p.in.ReadString('\n')
		if err != nil && line == "" {
			p.err = err
			return
		}
		p.lines <- line
	}
}

func (p *StdinPrompter) Ask(ctx context.Context, question string) (bool, error) {
	if p == nil || p.in == nil || p.out == nil {
		return false, ErrPromptUnavailable
	}
	p.once.Do(func() { go p.readLines() })
	if _, err := fmt.Fprintf(p.out, "%s [y/N] ", question); err != nil {
		return false, err
	}
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			return false, p.err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

type PromptRequest struct {
	Question string
	Reply    chan<- bool
}

// ChannelPrompter hands questions to an interactive front end and waits for
// its reply.
type ChannelPrompter struct {
	requests chan PromptRequest
}

func NewChannelPrompter() *ChannelPrompter {
	return &ChannelPrompter{requests: make(chan PromptRequest)}
}

func (p *ChannelPrompter) Requests() <-chan PromptRequest {
	return p.requests
}

func (p *ChannelPrompter) Ask(ctx context.Context, question string) (bool, error) {
	reply := make(chan bool, 1)
	select {
	case p.requests <- PromptRequest{Question: question, Reply: reply}:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case ok := <-reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
