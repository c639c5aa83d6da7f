package winsys

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
)

// ExecLauncher starts target application processes with os/exec. Launched
// processes are fire and forget; the window system picks them up on the
// next enumeration.
type ExecLauncher struct {
	command string
	args    []string
}

func NewExecLauncher(command string, args []string) *ExecLauncher {
	return &ExecLauncher{command: command, args: args}
}

func (l *ExecLauncher) Launch(ctx context.Context, instances int) error {
	for i := 0; i < instances; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		cmd := exec.Command(l.command, l.args...)
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("failed to launch %s: %w", l.command, err)
		}

		slog.Debug("launched application instance", "command", l.command, "pid", cmd.Process.Pid)

		// Reap the child so finished processes don't linger as zombies.
		go func() { _ = cmd.Wait() }()
	}
	return nil
}
