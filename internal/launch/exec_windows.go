//go:build windows

package launch

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// execPlan has no process-replace primitive on Windows, so it forks, waits,
// and exits with the child's code, preserving the single-process illusion
// for the caller: same exit code, same standard streams.
func execPlan(p Plan) error {
	cmd := exec.Command(p.Exec, p.Args[1:]...)
	cmd.Env = p.Env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		return fmt.Errorf("exec %s: %w", p.Exec, err)
	}
	os.Exit(0)
	return nil // unreachable
}
