//go:build unix

package hooks

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
)

const supported = true

// runScript runs one script with sh and enforces the timeout, killing the
// process group on expiration so descendant processes are terminated too.
func (r *Runner) runScript(ctx context.Context, script string, env []string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// #nosec G204 -- script is from the controlled .moth/hooks directory
	cmd := exec.Command("sh", script)
	cmd.Env = env
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil && !errors.Is(err, syscall.ESRCH) {
				return fmt.Errorf("kill process group: %w", err)
			}
		}
		<-done
		return ctx.Err()
	case err := <-done:
		return err
	}
}
