// Package version compares dotted four-component tool version strings
// (major.minor.patch.build), the shape the Clojure CLI reports.
package version

import (
	"fmt"
	"regexp"
	"strconv"
)

// tuplePattern is anchored at the start of the string; anything after the
// fourth component (pre-release tags, stray text) is ignored.
var tuplePattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)\.(\d+)`)

// Tuple is a parsed four-component version: major, minor, patch, build.
type Tuple [4]int

// Parse extracts a Tuple from s. All four components must be present and
// numeric; otherwise an error is returned. A parse failure is distinct from
// any comparison outcome.
func Parse(s string) (Tuple, error) {
	m := tuplePattern.FindStringSubmatch(s)
	if m == nil {
		return Tuple{}, fmt.Errorf("not a four-component version string: %q", s)
	}
	var t Tuple
	for i := 0; i < 4; i++ {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Tuple{}, fmt.Errorf("invalid version component %q in %q: %w", m[i+1], s, err)
		}
		t[i] = n
	}
	return t, nil
}

// Compare returns -1, 0, or 1 as t orders before, equal to, or after other
// under lexicographic tuple ordering. Earlier components dominate.
func (t Tuple) Compare(other Tuple) int {
	for i := 0; i < 4; i++ {
		switch {
		case t[i] < other[i]:
			return -1
		case t[i] > other[i]:
			return 1
		}
	}
	return 0
}

func (t Tuple) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", t[0], t[1], t[2], t[3])
}

// AtLeast reports whether actual satisfies the given minimum, inclusively:
// equal tuples (including an equal build component) count as compliant.
// It returns an error, not false, when either string fails to parse.
func AtLeast(minimum, actual string) (bool, error) {
	min, err := Parse(minimum)
	if err != nil {
		return false, fmt.Errorf("minimum version: %w", err)
	}
	act, err := Parse(actual)
	if err != nil {
		return false, fmt.Errorf("actual version: %w", err)
	}
	return act.Compare(min) >= 0, nil
}
