// Package config holds the launcher's configuration. Everything has a
// working default; Validate normalizes and rejects unusable values before
// any subprocess is spawned.
package config

import (
	"errors"
	"fmt"
	"strings"

	"replaunch/internal/version"
)

type Config struct {
	Tools   Tools
	Deps    Deps
	Runtime Runtime
}

type Tools struct {
	// ResolverCmd is the dependency resolver binary (the Clojure CLI).
	ResolverCmd string

	// RuntimeCmd is the JVM binary the session is handed off to.
	RuntimeCmd string

	// MinResolverVersion is the four-component tool version below which the
	// in-session add-dependency feature does not work. Crossing below it
	// only warns; it never blocks a launch.
	MinResolverVersion string
}

type Deps struct {
	// DefaultCoord/DefaultVersion name the fixed runtime dependency every
	// session gets (the line editor the REPL runs on).
	DefaultCoord   string
	DefaultVersion string

	// EntryNamespace is the -m target handed to clojure.main.
	EntryNamespace string
}

type Runtime struct {
	// Verbose enables [verbose] diagnostics on stderr for every subprocess
	// and HTTP call (see --verbose).
	Verbose bool
}

func New() *Config {
	return &Config{
		Tools: Tools{
			ResolverCmd:        "clojure",
			RuntimeCmd:         "java",
			MinResolverVersion: "1.11.1.1347",
		},
		Deps: Deps{
			DefaultCoord:   "com.bhauman/rebel-readline",
			DefaultVersion: "0.1.5",
			EntryNamespace: "rebel-readline.main",
		},
	}
}

func (c *Config) Validate() error {
	c.Tools.ResolverCmd = strings.TrimSpace(c.Tools.ResolverCmd)
	c.Tools.RuntimeCmd = strings.TrimSpace(c.Tools.RuntimeCmd)

	if c.Tools.ResolverCmd == "" {
		return errors.New("resolver command must not be empty")
	}
	if c.Tools.RuntimeCmd == "" {
		return errors.New("runtime command must not be empty")
	}
	if _, err := version.Parse(c.Tools.MinResolverVersion); err != nil {
		return fmt.Errorf("minimum resolver version: %w", err)
	}
	if c.Deps.DefaultCoord == "" || c.Deps.DefaultVersion == "" {
		return errors.New("default runtime dependency must be set")
	}
	if c.Deps.EntryNamespace == "" {
		return errors.New("entry namespace must be set")
	}
	return nil
}
