package export

import (
	"context"
	"fmt"
	"runtime"
)

// Opener hands a URI to the desktop environment.
type Opener interface {
	Open(ctx context.Context, uri string) error
}

var openCommands = map[string][]string{
	"linux":   {"xdg-open"},
	"darwin":  {"open"},
	"windows": {"rundll32", "url.dll,FileProtocolHandler"},
}

// CommandOpener opens URIs with xdg-open, open or rundll32.
type CommandOpener struct {
	run  Runner
	goos string
}

func NewCommandOpener(run Runner) *CommandOpener {
	if run == nil {
		run = ExecRunner
	}
	return &CommandOpener{run: run, goos: runtime.GOOS}
}

func (o *CommandOpener) Open(ctx context.Context, uri string) error {
	cmd, ok := openCommands[o.goos]
	if !ok {
		return fmt.Errorf("%w on %s", ErrNoOpener, o.goos)
	}
	args := append(append([]string{}, cmd[1:]...), uri)
	return o.run(ctx, cmd[0], args, nil)
}
