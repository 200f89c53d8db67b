// Package resolver drives the external Clojure CLI: path-mode classpath
// resolution, verbose resolution for basis discovery, and the tool version
// query. The CLI binary is the single source of dependency resolution; this
// package never resolves anything itself.
package resolver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"replaunch/internal/specifier"
)

// Runner executes one subprocess and returns its standard output. It exists
// so tests can count and script invocations without a real Clojure install.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout string, err error)
}

// InvocationError is the fatal failure of a resolver subprocess. ExitCode is
// the subprocess's own code when it ran and failed, or -1 when it could not
// be started at all (missing binary, bad working directory).
type InvocationError struct {
	Tool     string
	Args     []string
	ExitCode int
	Err      error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Tool, strings.Join(e.Args, " "), e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// execRunner is the production Runner. The subprocess inherits our stderr so
// resolver download progress stays visible to the user.
type execRunner struct {
	stderr io.Writer
}

func (r *execRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	if _, err := exec.LookPath(name); err != nil {
		return "", &InvocationError{Tool: name, Args: args, ExitCode: -1, Err: err}
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = r.stderr
	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return out.String(), &InvocationError{Tool: name, Args: args, ExitCode: code, Err: err}
	}
	return out.String(), nil
}

// Invoker wraps the Clojure CLI binary. Every call is synchronous and
// blocking; failures are fatal for the whole launch and are never retried
// (resolver failures are configuration or network problems the user has to
// fix, not transient conditions).
type Invoker struct {
	cmd     string
	run     Runner
	verbose bool
	logW    io.Writer
}

type Option func(*Invoker)

// WithRunner substitutes the subprocess runner (tests).
func WithRunner(r Runner) Option {
	return func(inv *Invoker) { inv.run = r }
}

// WithVerbose enables one [verbose] line per subprocess call on w.
func WithVerbose(enabled bool, w io.Writer) Option {
	return func(inv *Invoker) {
		inv.verbose = enabled
		inv.logW = w
	}
}

func New(cmd string, opts ...Option) *Invoker {
	inv := &Invoker{cmd: cmd, logW: os.Stderr}
	for _, apply := range opts {
		if apply != nil {
			apply(inv)
		}
	}
	if inv.run == nil {
		inv.run = &execRunner{stderr: os.Stderr}
	}
	return inv
}

func (inv *Invoker) logf(format string, args ...any) {
	if inv.verbose && inv.logW != nil {
		fmt.Fprintf(inv.logW, "[verbose] resolver: "+format+"\n", args...)
	}
}

// ResolveClasspath resolves the given dependency set in workDir and returns
// the trimmed classpath the CLI prints in path mode. The descriptors are
// serialized here so callers never touch the deps-map grammar.
func (inv *Invoker) ResolveClasspath(ctx context.Context, workDir string, descs []specifier.Descriptor) (string, error) {
	depsMap := EncodeDeps(descs)
	inv.logf("%s -Sdeps %s -Spath (in %s)", inv.cmd, depsMap, workDir)
	out, err := inv.run.Run(ctx, workDir, inv.cmd, "-Sdeps", depsMap, "-Spath")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// VerboseResolve resolves the ambient project in workDir (its deps.edn) in
// verbose path mode and returns the full diagnostic output: the cp_file
// marker line and, last, the classpath itself.
func (inv *Invoker) VerboseResolve(ctx context.Context, workDir string) (string, error) {
	inv.logf("%s -Sverbose -Spath (in %s)", inv.cmd, workDir)
	return inv.run.Run(ctx, workDir, inv.cmd, "-Sverbose", "-Spath")
}

// ToolVersion queries the CLI's version banner and returns its last
// whitespace-delimited token, e.g. "1.12.0.1479" out of
// "Clojure CLI version 1.12.0.1479".
func (inv *Invoker) ToolVersion(ctx context.Context) (string, error) {
	inv.logf("%s --version", inv.cmd)
	out, err := inv.run.Run(ctx, "", inv.cmd, "--version")
	if err != nil {
		return "", err
	}
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return "", fmt.Errorf("%s --version produced no output", inv.cmd)
	}
	return fields[len(fields)-1], nil
}
