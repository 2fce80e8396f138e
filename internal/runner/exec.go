package runner

import (
	"context"
	"os/exec"
	"time"
)

// runCancelableCommand starts cmd and waits for it, killing the process when
// ctx is canceled. A killed process still gets a short grace period to be
// reaped so no zombie is left behind.
func runCancelableCommand(ctx context.Context, cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}

	waitCh := make(chan error, 1)
	go func() {
		waitCh <- cmd.Wait()
	}()

	select {
	case err := <-waitCh:
		return err
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		select {
		case err := <-waitCh:
			if err != nil {
				return err
			}
			return ctx.Err()
		case <-time.After(2 * time.Second):
			return ctx.Err()
		}
	}
}
