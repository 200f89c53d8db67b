package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v81/github"
	"golang.org/x/sync/errgroup"

	"replaunch/internal/specifier"
)

// pinConcurrency bounds the parallel SHA lookups. The lookups are
// independent HTTP calls with no shared resolver state, unlike the
// resolver invocations themselves, which stay strictly sequential.
const pinConcurrency = 4

// CommitResolver is the slice of the GitHub API PinRefs needs; satisfied by
// *github.RepositoriesService and by test fakes.
type CommitResolver interface {
	GetCommitSHA1(ctx context.Context, owner, repo, ref, lastSHA string) (string, *github.Response, error)
}

// Repositories returns the client's commit resolver.
func (c *Client) Repositories() CommitResolver {
	return c.Client.Repositories
}

// PinRefs fills in the revision of every git descriptor that lacks one,
// using the default-branch HEAD SHA. Descriptors with an explicit revision
// and non-git descriptors pass through untouched. A git URL outside
// github.com with no revision is an error: there is no API to consult.
func PinRefs(ctx context.Context, repos CommitResolver, descs []specifier.Descriptor) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(pinConcurrency)

	for i := range descs {
		ref, ok := descs[i].Source.(specifier.GitRef)
		if !ok || ref.Rev != "" {
			continue
		}

		owner, repo, err := splitGitHubURL(ref.URL)
		if err != nil {
			return fmt.Errorf("%s: %w (supply an explicit revision)", descs[i].Coord, err)
		}

		g.Go(func() error {
			sha, _, err := repos.GetCommitSHA1(ctx, owner, repo, "HEAD", "")
			if err != nil {
				return fmt.Errorf("resolving HEAD of %s/%s: %w", owner, repo, err)
			}
			ref.Rev = sha
			descs[i].Source = ref
			return nil
		})
	}

	return g.Wait()
}

func splitGitHubURL(raw string) (owner, repo string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("unparseable git URL %q", raw)
	}
	if u.Host != "github.com" {
		return "", "", fmt.Errorf("cannot pin a revision on host %q", u.Host)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("git URL %q does not name owner/repo", raw)
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}
