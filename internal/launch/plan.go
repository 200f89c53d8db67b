package launch

import (
	"fmt"
	"os"
	"os/exec"
)

// Plan is the fully composed runtime invocation: executable, argv, and
// environment. It is built once, after every constituent classpath resolved,
// and handed to exec as the final step. Never mutated after construction.
type Plan struct {
	Exec string
	Args []string
	Env  []string
}

// BuildPlan assembles the JVM invocation: the composed classpath, the basis
// sidecar as a system property for in-session introspection, and the fixed
// entry namespace.
func BuildPlan(runtimeCmd, composedClasspath, basisPath, entryNS string) (Plan, error) {
	bin, err := exec.LookPath(runtimeCmd)
	if err != nil {
		return Plan{}, fmt.Errorf("runtime %q not found: %w", runtimeCmd, err)
	}
	return Plan{
		Exec: bin,
		Args: []string{
			runtimeCmd,
			"-cp", composedClasspath,
			"-Dclojure.basis=" + basisPath,
			"clojure.main",
			"-m", entryNS,
		},
		Env: os.Environ(),
	}, nil
}
