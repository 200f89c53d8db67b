//go:build unix

package launch

import (
	"fmt"
	"syscall"
)

// execPlan replaces the current process image with the plan. On success it
// never returns; the launcher's lifetime ends here.
func execPlan(p Plan) error {
	if err := syscall.Exec(p.Exec, p.Args, p.Env); err != nil {
		return fmt.Errorf("exec %s: %w", p.Exec, err)
	}
	return nil // unreachable
}
