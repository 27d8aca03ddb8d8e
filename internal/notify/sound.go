package notify

import (
	"context"
	"errors"
	"io"
	"runtime"
)

const (
	linuxDefaultSound  = "/usr/share/sounds/freedesktop/stereo/complete.oga"
	darwinDefaultSound = "/System/Library/Sounds/Glass.aiff"
)

// ExecSoundPlayer plays File with the platform audio player.
type ExecSoundPlayer struct {
	File string
	GOOS string
	Run  CommandRunner
}

func NewExecSoundPlayer(file string) *ExecSoundPlayer {
	return &ExecSoundPlayer{File: file, GOOS: runtime.GOOS, Run: execRunner}
}

func (p *ExecSoundPlayer) Play(ctx context.Context) error {
	run := p.Run
	if run == nil {
		run = execRunner
	}
	file := p.File
	switch p.GOOS {
	case "linux":
		if file == "" {
			file = linuxDefaultSound
		}
		_, err := run(ctx, "paplay", file)
		return err
	case "darwin":
		if file == "" {
			file = darwinDefaultSound
		}
		_, err := run(ctx, "afplay", file)
		return err
	default:
		return errors.New("notify: no sound player for " + p.GOOS)
	}
}

// BellPlayer rings the terminal bell.
type BellPlayer struct {
	Out io.Writer
}

func (p BellPlayer) Play(context.Context) error {
	if p.Out == nil {
		return errors.New("notify: bell has no output")
	}
	_, err := io.WriteString(p.Out, "\a")
	return err
}
