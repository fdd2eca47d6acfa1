package pattern

// extSetMatcher tests whether a filename ends with any of a small set of
// literal extensions in one pass over the name. It is grounded on the
// teacher's ahocorasick.go, adapted from "scan a content buffer for any of
// N literal substrings" to "does this one filename end in any of N literal
// suffixes": since the search text here is a single bounded string scanned
// from a known origin (not an arbitrary offset into a large buffer), the
// automaton only needs a suffix trie, not full Aho-Corasick failure links —
// the same "build once, one pass over the text" shape without the part of
// the algorithm that exists solely to recover from a failed match mid-buffer.
type extSetMatcher struct {
	root       *extNode
	exts       []string
	ignoreCase bool
}

type extNode struct {
	children [256]*extNode
	terminal bool
}

// newExtSetMatcher builds a suffix trie over exts, each given without its
// leading dot stripped (ExtensionSet entries are the full ".ext" suffix,
// matching spec §3's ExtensionSet({ext1,...,extn})).
func newExtSetMatcher(exts []string, ignoreCase bool) *extSetMatcher {
	m := &extSetMatcher{root: &extNode{}, ignoreCase: ignoreCase}
	for _, e := range exts {
		if ignoreCase {
			e = lowerASCII(e)
		}
		m.exts = append(m.exts, e)
		node := m.root
		for i := len(e) - 1; i >= 0; i-- {
			b := e[i]
			if node.children[b] == nil {
				node.children[b] = &extNode{}
			}
			node = node.children[b]
		}
		node.terminal = true
	}
	return m
}

// MatchSuffix reports whether name ends in any registered extension.
func (m *extSetMatcher) MatchSuffix(name string) bool {
	node := m.root
	n := len(name)
	for i := n - 1; i >= 0; i-- {
		b := name[i]
		if m.ignoreCase {
			b = toLowerByte(b)
		}
		child := node.children[b]
		if child == nil {
			return false
		}
		node = child
		if node.terminal {
			return true
		}
	}
	return false
}

// Extensions returns the registered extension suffixes, for diagnostics.
func (m *extSetMatcher) Extensions() []string {
	return m.exts
}
