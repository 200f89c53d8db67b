package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"replaunch/internal/specifier"
)

// EncodeDeps serializes descriptors to the resolver's deps-map form:
//
//	{:deps {metosin/malli {:mvn/version "0.9.2"} ...}}
//
// Entries keep descriptor order. The orchestrator never touches this grammar
// itself; all knowledge of the textual form lives here.
func EncodeDeps(descs []specifier.Descriptor) string {
	var b strings.Builder
	b.WriteString("{:deps {")
	for i, d := range descs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.Coord)
		b.WriteByte(' ')
		b.WriteString(encodeSource(d.Source))
	}
	b.WriteString("}}")
	return b.String()
}

func encodeSource(s specifier.Source) string {
	switch v := s.(type) {
	case specifier.MavenVersion:
		return fmt.Sprintf("{:mvn/version %s}", ednString(string(v)))
	case specifier.GitRef:
		return fmt.Sprintf("{:git/url %s :git/sha %s}", ednString(v.URL), ednString(v.Rev))
	case specifier.LocalRoot:
		return fmt.Sprintf("{:local/root %s}", ednString(string(v)))
	default:
		// The Source variant is closed; a new case here is a programming error.
		panic(fmt.Sprintf("unknown dependency source %T", s))
	}
}

func ednString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// WriteDepsEDN materializes the descriptors as the ambient project manifest
// in dir, so a subsequent verbose resolve of that directory covers exactly
// the requested set. An empty set writes an empty deps map, which the
// resolver treats as "default runtime only".
func WriteDepsEDN(dir string, descs []specifier.Descriptor) error {
	manifest := EncodeDeps(descs) + "\n"
	path := filepath.Join(dir, "deps.edn")
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
