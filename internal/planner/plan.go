// Package planner implements the Traversal Planner (spec §4.2): turning a
// compiled Pattern into a concrete starting point and pruning strategy so
// the walker never descends into a directory no segment of the pattern
// could possibly match. Grounded on the teacher's own base-directory
// reasoning in cmd root.go (where a literal leading path component is
// passed straight to the walker as its root instead of "."), generalized
// into an explicit planning step with per-segment pruning.
package planner

import (
	"path/filepath"
	"strings"

	"github.com/capsoftware/globlin/internal/pattern"
)

// Base is one compiled Pattern's resolved starting point: the literal
// directory prefix extracted off the front of the pattern (so the walker
// never has to stat the cwd itself when the pattern already names a
// subdirectory), and the segments still to be matched against the walk.
type Base struct {
	Pattern   *pattern.Pattern
	Dir       string              // literal prefix, relative to cwd/root; "" means cwd itself
	Remaining []*pattern.Segment  // segments after the literal prefix
	Static    bool                // Remaining has no magic: single stat, no walk needed
	StaticRel string              // full relative path when Static
	Unbounded bool                // Remaining contains a recursive (globstar) segment
	MaxDepth  int                 // bound on directories below Dir when not Unbounded
}

// WalkPlan groups every pattern's Base plus the roots the walker actually
// needs to traverse (deduplicated and, where one root is a prefix of
// another, collapsed to the shallower one so overlapping patterns share a
// single directory walk).
type WalkPlan struct {
	Bases []*Base
	Roots []string
}

// Plan implements spec §4.2's plan(patterns) contract.
func Plan(patterns []*pattern.Pattern, root string) *WalkPlan {
	wp := &WalkPlan{}
	rootSet := map[string]bool{}

	for _, p := range patterns {
		b := planOne(p)
		wp.Bases = append(wp.Bases, b)

		dir := b.Dir
		if dir == "" {
			dir = "."
		}
		full := dir
		if root != "" && root != "." {
			full = filepath.Join(root, dir)
		}
		rootSet[full] = true
	}

	wp.Roots = dedupRoots(rootSet)
	return wp
}

func planOne(p *pattern.Pattern) *Base {
	segs := p.Segments
	i := 0
	var prefixParts []string
	for i < len(segs) && segs[i].Kind == pattern.KindLiteral {
		prefixParts = append(prefixParts, segs[i].Literal)
		i++
	}

	remaining := segs[i:]
	b := &Base{
		Pattern:   p,
		Dir:       strings.Join(prefixParts, "/"),
		Remaining: remaining,
	}

	if len(remaining) == 0 {
		b.Static = true
		b.StaticRel = b.Dir
		return b
	}

	for _, s := range remaining {
		if s.IsRecursive() {
			b.Unbounded = true
			break
		}
	}
	if !b.Unbounded {
		b.MaxDepth = len(remaining)
	}

	return b
}

// dedupRoots removes any root that is a strict descendant of another root
// already in the set — the shallower walk already covers it.
func dedupRoots(set map[string]bool) []string {
	var roots []string
	for r := range set {
		roots = append(roots, r)
	}
	var out []string
	for _, r := range roots {
		shadowed := false
		for _, other := range roots {
			if other == r {
				continue
			}
			if isAncestor(other, r) {
				shadowed = true
				break
			}
		}
		if !shadowed {
			out = append(out, r)
		}
	}
	return out
}

func isAncestor(ancestor, path string) bool {
	if ancestor == "." {
		return path != "."
	}
	rel, err := filepath.Rel(ancestor, path)
	if err != nil {
		return false
	}
	return rel != "." && !strings.HasPrefix(rel, "..")
}

// PruneDir reports whether dirName (at depth 0-indexed into b.Remaining,
// counted from Dir) can be skipped entirely: no path through it could ever
// satisfy b.Remaining. A recursive segment never prunes by name — every
// directory is a candidate continuation of "zero or more levels".
func (b *Base) PruneDir(depth int, dirName string, dot bool) bool {
	if depth >= len(b.Remaining) {
		return false
	}
	seg := b.Remaining[depth]
	if seg.IsRecursive() {
		return false
	}
	return !seg.Matches(dirName, dot)
}

// MatchCandidate reports whether relParts (the path components below Dir,
// including the candidate's own name as the last element) fully satisfies
// b.Remaining. The walker calls this once per entry it reaches, files and
// directories alike.
func (b *Base) MatchCandidate(relParts []string, dot bool) bool {
	return pattern.MatchSegments(b.Remaining, relParts, dot)
}
