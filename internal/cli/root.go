package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"replaunch/internal/config"
	"replaunch/internal/launch"
	"replaunch/internal/resolver"
	"replaunch/internal/specifier"
	"replaunch/internal/term"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var cfg = config.New()

// launchFn is swapped out by tests so CLI dispatch can be exercised without
// spawning resolver subprocesses.
var launchFn = runLaunch

var rootCmd = &cobra.Command{
	Use:   "replaunch [dep [version|revision]]...",
	Short: "Start a Clojure REPL preloaded with ad hoc dependencies",
	Long: `Replaunch starts an interactive Clojure REPL with the dependencies you name
on the command line, without you authoring a deps.edn.

Dependency specifiers:
	group/artifact [version]        Maven/Clojars coordinate. Without a version,
	                                the latest release is looked up.
	io.github.OWNER/REPO [rev]      GitHub shorthand (also com.github, com.gitlab,
	                                io.gitlab). Without a revision, GitHub repos
	                                are pinned to the default branch HEAD.
	https://github.com/OWNER/REPO   Full repository URL, optionally followed by
	                                a revision (SHA, tag, branch).
	./path, /abs/path               Local project or jar directory.

Examples:
	# Plain REPL, no extra dependencies
	replaunch

	# A library at a specific version
	replaunch metosin/malli 0.9.2

	# Latest release of a library plus a git dependency
	replaunch hiccup/hiccup io.github.metosin/malli

Environment:
	REPLAUNCH_CLASSPATH  Classpath of the launcher's own support code, merged
	                     between the default runtime deps and the requested deps.
	GITHUB_TOKEN         Used for revision pinning (falls back to gh auth token).
	NO_COLOR, TERM       Disable colored warnings/errors; never change behavior.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return launchFn(cmd.Context(), args)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, "verbose", false, "Enable verbose diagnostics (prints every subprocess and registry call)")
}

func runLaunch(ctx context.Context, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	// The launcher's ambient classpath is captured here, once, before
	// anything reloads overlapping libraries, and threaded through as a
	// plain value.
	ambient := os.Getenv("REPLAUNCH_CLASSPATH")
	return launch.New(cfg, ambient).Run(ctx, args)
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

// exitCodeFor maps error kinds to the process exit contract:
// 1 for specifier parse errors, the failing subprocess's own code for
// resolver invocation failures, 1 for everything else.
func exitCodeFor(err error) int {
	var ie *resolver.InvocationError
	if errors.As(err, &ie) && ie.ExitCode > 0 {
		return ie.ExitCode
	}
	var pe *specifier.ParseError
	if errors.As(err, &pe) {
		return 1
	}
	return 1
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		term.NewPrinter(os.Stderr).Errorf("%v", err)
		os.Exit(exitCodeFor(err))
	}
}
