package ignore

import (
	"strings"

	"github.com/capsoftware/globlin/internal/pattern"
)

// GlobIgnorer evaluates the plain-glob half of the ignore option: patterns
// compiled the same way positive query patterns are, matched against a
// path relative to the walk root. Grounded on the teacher's
// parallelWalker.isGlobExcluded, generalized from filename-only matching to
// full relative-path matching so a glob ignore pattern can contain '/'.
type GlobIgnorer struct {
	patterns []*pattern.Pattern
}

// NewGlobIgnorer compiles raw ignore glob patterns with the same
// CompileOptions the query itself uses, so escaping/case rules stay
// consistent between what you match and what you exclude.
func NewGlobIgnorer(raw []string, opts pattern.CompileOptions) (*GlobIgnorer, error) {
	compiled, err := pattern.CompileAll(raw, opts)
	if err != nil {
		return nil, err
	}
	return &GlobIgnorer{patterns: compiled}, nil
}

// Matches reports whether relPath (slash-separated, relative to the walk
// root) matches any ignore pattern.
func (g *GlobIgnorer) Matches(relPath string, dot bool) bool {
	if g == nil {
		return false
	}
	parts := strings.Split(relPath, "/")
	for _, p := range g.patterns {
		if pattern.MatchSegments(p.Segments, parts, dot) {
			return true
		}
	}
	return false
}
