package pattern

// MatchSegments reports whether a fixed slice of path components fully
// satisfies segs, honoring a RecursiveGlobstar (or collapsed Recursive
// fast-path) segment's "zero or more levels" semantics via backtracking.
// Shared by the Ignore Matcher (matching a known relative path) and the
// Traversal Planner (matching a final candidate against the pattern tail).
func MatchSegments(segs []*Segment, parts []string, dot bool) bool {
	return matchSegmentsFrom(segs, parts, dot)
}

func matchSegmentsFrom(segs []*Segment, parts []string, dot bool) bool {
	if len(segs) == 0 {
		return len(parts) == 0
	}
	seg := segs[0]

	// A bare "**": zero or more whole path components, no per-name check.
	if seg.Kind == KindWildcard && seg.WildcardKind == RecursiveGlobstar {
		if len(segs) == 1 {
			return true
		}
		for start := 0; start <= len(parts); start++ {
			if matchSegmentsFrom(segs[1:], parts[start:], dot) {
				return true
			}
		}
		return false
	}

	// A collapsed "**/<fast path>": zero or more components, then one
	// component satisfying the fast path, then the rest of segs.
	if seg.Kind == KindFastPath && (seg.Fast.Variant == RecursiveExtension || seg.Fast.Variant == RecursiveExtensionSet) {
		for idx := 0; idx < len(parts); idx++ {
			if !seg.Matches(parts[idx], dot) {
				continue
			}
			if matchSegmentsFrom(segs[1:], parts[idx+1:], dot) {
				return true
			}
		}
		return false
	}

	if len(parts) == 0 {
		return false
	}
	if !seg.Matches(parts[0], dot) {
		return false
	}
	return matchSegmentsFrom(segs[1:], parts[1:], dot)
}
