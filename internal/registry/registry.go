// Package registry looks up the latest released version of a Maven-style
// coordinate, so a bare "group/artifact" specifier can be completed before
// it is handed to the resolver. Clojars is consulted first, then the Maven
// Central search API.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

const (
	clojarsArtifactURL = "https://clojars.org/api/artifacts"
	centralSearchURL   = "https://search.maven.org/solrsearch/select"
)

type Client struct {
	http *http.Client
	// writer receives one [verbose] line per registry request so structured
	// stdout (the classpath hand-off) stays clean.
	verbose bool
	logW    io.Writer
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithVerbose(enabled bool, w io.Writer) Option {
	return func(c *Client) {
		c.verbose = enabled
		c.logW = w
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{logW: os.Stderr}
	for _, apply := range opts {
		if apply != nil {
			apply(c)
		}
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 15 * time.Second}
	}
	return c
}

func (c *Client) logf(format string, args ...any) {
	if c.verbose && c.logW != nil {
		fmt.Fprintf(c.logW, "[verbose] registry: "+format+"\n", args...)
	}
}

// LatestVersion returns the newest release of group/artifact. Both registries
// failing is fatal for the launch: the resolver has no floating-version
// support, so an incomplete coordinate cannot proceed.
func (c *Client) LatestVersion(ctx context.Context, group, artifact string) (string, error) {
	v, clojarsErr := c.fromClojars(ctx, group, artifact)
	if clojarsErr == nil && v != "" {
		return v, nil
	}

	v, centralErr := c.fromCentral(ctx, group, artifact)
	if centralErr == nil && v != "" {
		return v, nil
	}

	return "", fmt.Errorf("no released version found for %s/%s (clojars: %v; maven central: %v)",
		group, artifact, clojarsErr, centralErr)
}

func (c *Client) fromClojars(ctx context.Context, group, artifact string) (string, error) {
	u := fmt.Sprintf("%s/%s/%s", clojarsArtifactURL, url.PathEscape(group), url.PathEscape(artifact))
	c.logf("GET %s", u)

	var body struct {
		LatestRelease string `json:"latest_release"`
		LatestVersion string `json:"latest_version"`
	}
	if err := c.getJSON(ctx, u, &body); err != nil {
		return "", err
	}
	if body.LatestRelease != "" {
		return body.LatestRelease, nil
	}
	// Artifact exists but has no stable release; fall back to its newest
	// version (typically a snapshot) rather than failing outright.
	return body.LatestVersion, nil
}

func (c *Client) fromCentral(ctx context.Context, group, artifact string) (string, error) {
	q := url.Values{}
	q.Set("q", fmt.Sprintf(`g:%q AND a:%q`, group, artifact))
	q.Set("rows", "1")
	q.Set("wt", "json")
	u := centralSearchURL + "?" + q.Encode()
	c.logf("GET %s", u)

	var body struct {
		Response struct {
			Docs []struct {
				LatestVersion string `json:"latestVersion"`
			} `json:"docs"`
		} `json:"response"`
	}
	if err := c.getJSON(ctx, u, &body); err != nil {
		return "", err
	}
	if len(body.Response.Docs) == 0 {
		return "", fmt.Errorf("artifact not found")
	}
	return body.Response.Docs[0].LatestVersion, nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
