// Package classpath assembles the final JVM classpath from the resolver's
// outputs. Everything here is a pure string transform; no filesystem access.
package classpath

import (
	"os"
	"strings"
)

// basisKey is the key of the line the Clojure CLI prints in verbose mode
// that names the cached classpath file. The CLI pads keys with spaces before
// the equals sign, so matching compares the trimmed key rather than looking
// for a literal substring.
const basisKey = "cp_file"

// verboseKeys are the diagnostic keys the CLI prints in verbose mode, one
// `key = value` line each, ahead of the classpath itself.
var verboseKeys = map[string]bool{
	"version":      true,
	"install_dir":  true,
	"config_dir":   true,
	"config_paths": true,
	"cache_dir":    true,
	"force":        true,
	"repro":        true,
	"main_aliases": true,
	"repl_aliases": true,
	basisKey:       true,
}

// cpSuffix and basisSuffix relate the cached classpath file to its basis
// sidecar: same base name, different extension.
const (
	cpSuffix    = ".cp"
	basisSuffix = ".basis"
)

// ExtractBasisSourcePath scans verbose resolver output line by line and
// returns the trimmed right-hand side of the first line whose key is
// cp_file. The second return is false when no line matches; callers must
// treat that as a fatal misconfiguration of the resolver's output contract.
func ExtractBasisSourcePath(verboseOutput string) (string, bool) {
	for _, line := range strings.Split(verboseOutput, "\n") {
		lhs, rhs, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(lhs) != basisKey {
			continue
		}
		return strings.TrimSpace(rhs), true
	}
	return "", false
}

// IsDiagnosticLine reports whether line is one of the resolver's verbose
// `key = value` diagnostics rather than a classpath. Classpath entries may
// themselves contain an equals sign, so only the known keys qualify.
func IsDiagnosticLine(line string) bool {
	lhs, _, ok := strings.Cut(line, "=")
	if !ok {
		return false
	}
	return verboseKeys[strings.TrimSpace(lhs)]
}

// LastLine returns the final non-empty line of out, trimmed. In a verbose
// path resolve the CLI prints its diagnostics first and the classpath last.
func LastLine(out string) string {
	lines := strings.Split(out, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}

// Compose joins the non-empty parts, in the given order, with the platform
// path-list separator. Duplicate entries are preserved as given: the runtime
// applies first-listed-wins precedence itself, so reordering or deduplicating
// here would change lookup semantics.
func Compose(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, string(os.PathListSeparator))
}

// DeriveBasisPath maps a cached classpath file path to its basis sidecar by
// suffix substitution. A path without the expected suffix is returned with
// the sidecar suffix appended, which matches how the resolver names the pair.
func DeriveBasisPath(cpFilePath string) string {
	if strings.HasSuffix(cpFilePath, cpSuffix) {
		return strings.TrimSuffix(cpFilePath, cpSuffix) + basisSuffix
	}
	return cpFilePath + basisSuffix
}
