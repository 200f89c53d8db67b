// Package launch is the top-level control flow: it turns raw dependency
// arguments into a running REPL. Parse, complete underspecified descriptors,
// resolve classpaths through the external resolver, compose, warn on tool
// incompatibility, exec. Every step is synchronous; any subprocess failure is
// fatal with no retry.
package launch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"replaunch/internal/classpath"
	"replaunch/internal/config"
	gh "replaunch/internal/github"
	"replaunch/internal/registry"
	"replaunch/internal/resolver"
	"replaunch/internal/specifier"
	"replaunch/internal/term"
	"replaunch/internal/version"
)

// MetadataError is the fatal absence of the cp_file marker in the resolver's
// verbose output, a misconfiguration of the resolver's output contract.
type MetadataError struct {
	Output string
}

func (e *MetadataError) Error() string {
	return "resolver verbose output contains no cp_file marker"
}

// VersionFinder completes a version-less Maven coordinate.
type VersionFinder interface {
	LatestVersion(ctx context.Context, group, artifact string) (string, error)
}

// RefPinner completes revision-less git descriptors in place.
type RefPinner func(ctx context.Context, descs []specifier.Descriptor) error

// Orchestrator owns one launch. The ambient classpath (the launcher's own
// support code, captured once at process start) is threaded through here as
// an explicit constructor value, never read from globals.
type Orchestrator struct {
	cfg       *config.Config
	invoker   *resolver.Invoker
	ambientCP string
	printer   *term.Printer
	versions  VersionFinder
	pin       RefPinner
	execFn    func(Plan) error
	logW      io.Writer
}

type Option func(*Orchestrator)

// WithInvoker substitutes the resolver invoker (tests).
func WithInvoker(inv *resolver.Invoker) Option {
	return func(o *Orchestrator) { o.invoker = inv }
}

// WithVersionFinder substitutes the registry lookup (tests).
func WithVersionFinder(vf VersionFinder) Option {
	return func(o *Orchestrator) { o.versions = vf }
}

// WithRefPinner substitutes the forge pinner (tests).
func WithRefPinner(p RefPinner) Option {
	return func(o *Orchestrator) { o.pin = p }
}

// WithExec substitutes the process-replace step (tests).
func WithExec(fn func(Plan) error) Option {
	return func(o *Orchestrator) { o.execFn = fn }
}

// WithPrinter substitutes the warning/error channel (tests).
func WithPrinter(p *term.Printer) Option {
	return func(o *Orchestrator) { o.printer = p }
}

func New(cfg *config.Config, ambientClasspath string, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:       cfg,
		ambientCP: ambientClasspath,
		logW:      os.Stderr,
	}
	for _, apply := range opts {
		if apply != nil {
			apply(o)
		}
	}
	if o.printer == nil {
		o.printer = term.NewPrinter(os.Stderr)
	}
	if o.invoker == nil {
		o.invoker = resolver.New(cfg.Tools.ResolverCmd,
			resolver.WithVerbose(cfg.Runtime.Verbose, o.logW))
	}
	if o.versions == nil {
		o.versions = registry.NewClient(registry.WithVerbose(cfg.Runtime.Verbose, o.logW))
	}
	if o.pin == nil {
		o.pin = o.defaultPinner
	}
	if o.execFn == nil {
		o.execFn = execPlan
	}
	return o
}

// defaultPinner builds the GitHub client lazily: launches without git
// specifiers never touch token resolution or the network.
func (o *Orchestrator) defaultPinner(ctx context.Context, descs []specifier.Descriptor) error {
	needed := false
	for _, d := range descs {
		if ref, ok := d.Source.(specifier.GitRef); ok && ref.Rev == "" {
			needed = true
			break
		}
	}
	if !needed {
		return nil
	}

	token, _, err := gh.ResolveToken(ctx)
	if err != nil {
		return fmt.Errorf("resolving github token: %w", err)
	}
	client, err := gh.NewClient(ctx, token, gh.WithVerbose(o.cfg.Runtime.Verbose, o.logW))
	if err != nil {
		return err
	}
	return gh.PinRefs(ctx, client.Repositories(), descs)
}

// Run drives one launch end to end. On unix success it does not return: the
// process image has been replaced. Parse errors return before any temp
// directory exists or any subprocess runs.
func (o *Orchestrator) Run(ctx context.Context, rawArgs []string) error {
	descs, err := specifier.ParseAll(rawArgs)
	if err != nil {
		return err
	}

	if err := o.complete(ctx, descs); err != nil {
		return err
	}

	workDir, err := os.MkdirTemp("", "replaunch-")
	if err != nil {
		return fmt.Errorf("creating work directory: %w", err)
	}
	// Removal runs on every early return; the success path removes
	// explicitly before exec since exec never returns. RemoveAll is
	// idempotent so the pairing is safe.
	defer os.RemoveAll(workDir)

	defaultCP, err := o.invoker.ResolveClasspath(ctx, workDir, []specifier.Descriptor{{
		Coord:  o.cfg.Deps.DefaultCoord,
		Source: specifier.MavenVersion(o.cfg.Deps.DefaultVersion),
	}})
	if err != nil {
		return err
	}

	if err := resolver.WriteDepsEDN(workDir, descs); err != nil {
		return err
	}
	verboseOut, err := o.invoker.VerboseResolve(ctx, workDir)
	if err != nil {
		return err
	}

	cpFile, ok := classpath.ExtractBasisSourcePath(verboseOut)
	if !ok {
		return &MetadataError{Output: verboseOut}
	}
	basisPath := classpath.DeriveBasisPath(cpFile)

	requestedCP := classpath.LastLine(verboseOut)
	if requestedCP == "" || classpath.IsDiagnosticLine(requestedCP) {
		return fmt.Errorf("resolver verbose output ends without a classpath")
	}

	composed := classpath.Compose(defaultCP, o.ambientCP, requestedCP)

	if err := o.checkToolVersion(ctx); err != nil {
		return err
	}

	plan, err := BuildPlan(o.cfg.Tools.RuntimeCmd, composed, basisPath, o.cfg.Deps.EntryNamespace)
	if err != nil {
		return err
	}

	os.RemoveAll(workDir)
	return o.execFn(plan)
}

// complete fills in what the user left out: latest release for version-less
// Maven coordinates, default-branch HEAD for revision-less git refs.
func (o *Orchestrator) complete(ctx context.Context, descs []specifier.Descriptor) error {
	for i := range descs {
		v, ok := descs[i].Source.(specifier.MavenVersion)
		if !ok || v != "" {
			continue
		}
		group, artifact, _ := strings.Cut(descs[i].Coord, "/")
		latest, err := o.versions.LatestVersion(ctx, group, artifact)
		if err != nil {
			return err
		}
		descs[i].Source = specifier.MavenVersion(latest)
	}
	return o.pin(ctx, descs)
}

// checkToolVersion warns when the installed resolver is too old for the
// in-session add-dependency feature. The warning never blocks the launch;
// only the version-query subprocess failing is fatal.
func (o *Orchestrator) checkToolVersion(ctx context.Context) error {
	actual, err := o.invoker.ToolVersion(ctx)
	if err != nil {
		return err
	}
	ok, err := version.AtLeast(o.cfg.Tools.MinResolverVersion, actual)
	if err != nil {
		// The tool answered with something we cannot parse; the launch can
		// still proceed, but say why the compatibility check was skipped.
		o.printer.Warnf("cannot check resolver version: %v", err)
		return nil
	}
	if !ok {
		o.printer.Warnf("resolver version %s is older than %s; adding dependencies from inside the session will not work",
			actual, o.cfg.Tools.MinResolverVersion)
	}
	return nil
}
