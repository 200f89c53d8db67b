// Package specifier classifies raw command-line dependency tokens into typed
// descriptors: Maven coordinates, git forge references, or local paths.
package specifier

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Source is the closed variant describing where a dependency comes from.
// Exactly one concrete type backs each descriptor.
type Source interface {
	isSource()
}

// MavenVersion is an artifact-registry version. Empty means "latest release",
// to be completed by a registry lookup before resolution.
type MavenVersion string

// GitRef is a git repository URL plus revision. An empty Rev on a
// github.com URL is completed by a forge lookup before resolution; other
// hosts require an explicit revision token.
type GitRef struct {
	URL string
	Rev string
}

// LocalRoot is a filesystem path used as a :local/root dependency.
type LocalRoot string

func (MavenVersion) isSource() {}
func (GitRef) isSource()       {}
func (LocalRoot) isSource()    {}

// Descriptor pairs a dependency coordinate (the lib symbol handed to the
// resolver) with its source variant. Immutable once parsed.
type Descriptor struct {
	Coord  string
	Source Source
}

// ParseError reports a malformed dependency token. It is the only error kind
// this package returns; callers map it to the parse-error exit code.
type ParseError struct {
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid dependency specifier %q: %s", e.Token, e.Reason)
}

var coordPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+/[A-Za-z0-9._-]+$`)

// gitHostPrefixes are the forge shorthand prefixes tools.deps infers a git
// URL from (e.g. io.github.metosin/malli).
var gitHostPrefixes = map[string]string{
	"com.github.": "https://github.com/",
	"io.github.":  "https://github.com/",
	"com.gitlab.": "https://gitlab.com/",
	"io.gitlab.":  "https://gitlab.com/",
}

// ParseAll turns the full positional argument list into descriptors. Each
// specifier may be followed by one version/revision token (Maven and git
// forms only). The result is either a descriptor list or a single error,
// never both. An empty argument list is valid and yields no descriptors.
func ParseAll(args []string) ([]Descriptor, error) {
	descs := make([]Descriptor, 0, len(args))
	for i := 0; i < len(args); i++ {
		tok := strings.TrimSpace(args[i])
		if tok == "" {
			continue
		}

		switch {
		case isLocalPath(tok):
			descs = append(descs, Descriptor{
				Coord:  "local/" + sanitizeCoordPart(path.Base(strings.TrimRight(tok, "/"))),
				Source: LocalRoot(tok),
			})

		case strings.HasPrefix(tok, "https://") || strings.HasPrefix(tok, "http://"):
			d, err := parseGitURL(tok)
			if err != nil {
				return nil, err
			}
			if rev, ok := takeRefToken(args, &i); ok {
				g := d.Source.(GitRef)
				g.Rev = rev
				d.Source = g
			}
			descs = append(descs, d)

		case gitShorthandHost(tok) != "":
			base := gitShorthandHost(tok)
			_, repo, _ := strings.Cut(tok, "/")
			owner := ownerFromShorthand(tok)
			d := Descriptor{
				Coord:  tok,
				Source: GitRef{URL: base + owner + "/" + repo},
			}
			if rev, ok := takeRefToken(args, &i); ok {
				g := d.Source.(GitRef)
				g.Rev = rev
				d.Source = g
			}
			descs = append(descs, d)

		case coordPattern.MatchString(tok):
			d := Descriptor{Coord: tok, Source: MavenVersion("")}
			if ver, ok := takeVersionToken(args, &i); ok {
				d.Source = MavenVersion(ver)
			}
			descs = append(descs, d)

		default:
			return nil, &ParseError{
				Token:  tok,
				Reason: "expected group/artifact, a git URL or forge shorthand, or a local path",
			}
		}
	}
	return descs, nil
}

// takeRefToken consumes the following argument as a git revision when it
// cannot start a specifier of its own. Tags, branches, and SHAs contain no
// slash; anything with a slash or a path prefix begins the next dependency.
func takeRefToken(args []string, i *int) (string, bool) {
	next := *i + 1
	if next >= len(args) {
		return "", false
	}
	tok := strings.TrimSpace(args[next])
	if tok == "" || strings.Contains(tok, "/") || isLocalPath(tok) {
		return "", false
	}
	*i = next
	return tok, true
}

// takeVersionToken consumes the following argument as a Maven version only
// when it has the shape of one: a leading digit and no slash. A bare word
// after a coordinate begins the next specifier instead of pinning this one.
func takeVersionToken(args []string, i *int) (string, bool) {
	next := *i + 1
	if next >= len(args) {
		return "", false
	}
	tok := strings.TrimSpace(args[next])
	if tok == "" || tok[0] < '0' || tok[0] > '9' || strings.Contains(tok, "/") {
		return "", false
	}
	*i = next
	return tok, true
}

func isLocalPath(tok string) bool {
	return tok == "." || tok == ".." ||
		strings.HasPrefix(tok, "/") ||
		strings.HasPrefix(tok, "./") ||
		strings.HasPrefix(tok, "../") ||
		strings.HasPrefix(tok, "~/")
}

func gitShorthandHost(tok string) string {
	for prefix, base := range gitHostPrefixes {
		if strings.HasPrefix(tok, prefix) && strings.Count(tok, "/") == 1 {
			return base
		}
	}
	return ""
}

func ownerFromShorthand(tok string) string {
	group, _, _ := strings.Cut(tok, "/")
	// io.github.metosin -> metosin
	parts := strings.Split(group, ".")
	return parts[len(parts)-1]
}

// parseGitURL accepts a full https repository URL and derives the coordinate
// from its owner/repo path segments.
func parseGitURL(tok string) (Descriptor, error) {
	u, err := url.Parse(tok)
	if err != nil {
		return Descriptor{}, &ParseError{Token: tok, Reason: "not a valid URL"}
	}
	segs := splitPathSegments(u.Path)
	if u.Host == "" || len(segs) < 2 {
		return Descriptor{}, &ParseError{Token: tok, Reason: "git URL must name owner and repository"}
	}
	owner, repo := segs[0], strings.TrimSuffix(segs[1], ".git")
	if owner == "" || repo == "" {
		return Descriptor{}, &ParseError{Token: tok, Reason: "git URL must name owner and repository"}
	}
	canonical := "https://" + u.Host + "/" + owner + "/" + repo
	return Descriptor{
		Coord:  sanitizeCoordPart(owner) + "/" + sanitizeCoordPart(repo),
		Source: GitRef{URL: canonical},
	}, nil
}

func splitPathSegments(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

var coordCharDrop = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitizeCoordPart(s string) string {
	out := coordCharDrop.ReplaceAllString(s, "-")
	if out == "" {
		return "dep"
	}
	return out
}
