// Package ignore implements the Ignore Matcher: layered .gitignore-style
// exclusion stacked per directory as the walker descends, plus plain glob
// pattern ignoring for the ignore option. Grounded on the teacher's
// internal/walker/gitignore.go, generalized from a single walk's ad hoc
// stack into a reusable component the planner and walker both consult.
package ignore

import (
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// Layer is one directory's compiled .gitignore rules (nil Parser when the
// directory has no .gitignore or it failed to parse — the layer still
// occupies a stack slot so depth bookkeeping stays simple).
type Layer struct {
	Dir    string
	Parser *gitignore.GitIgnore
}

// LoadLayer compiles dir's .gitignore, if any.
func LoadLayer(dir string) Layer {
	path := filepath.Join(dir, ".gitignore")
	parser, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		return Layer{Dir: dir}
	}
	return Layer{Dir: dir, Parser: parser}
}

// GitTree is a stack of Layers accumulated from the walk root down to the
// current directory. It is immutable once built — the walker clones
// (appends to) the parent's slice rather than mutating shared state, so
// concurrent workers can hold their own layer snapshots safely.
type GitTree struct {
	Layers []Layer
}

// NewGitTree seeds a tree at root, honoring extraIgnoreFiles (spec's
// ignoreFiles-equivalent option: additional gitignore-syntax files to treat
// as always-active, e.g. a global ~/.globlinignore).
func NewGitTree(root string, extraIgnoreFiles ...string) *GitTree {
	layers := []Layer{LoadLayer(root)}
	for _, f := range extraIgnoreFiles {
		if parser, err := gitignore.CompileIgnoreFile(f); err == nil {
			layers = append(layers, Layer{Dir: root, Parser: parser})
		}
	}
	return &GitTree{Layers: layers}
}

// Descend returns a new GitTree for a child directory, with that
// directory's own .gitignore layered on top.
func (t *GitTree) Descend(childDir string) *GitTree {
	layers := make([]Layer, len(t.Layers)+1)
	copy(layers, t.Layers)
	layers[len(t.Layers)] = LoadLayer(childDir)
	return &GitTree{Layers: layers}
}

// Ignored reports whether fullPath (a file or directory) is excluded by any
// layer in the stack. isDir affects gitignore's trailing-slash-only rules.
func (t *GitTree) Ignored(fullPath string, isDir bool) bool {
	for _, layer := range t.Layers {
		if layer.Parser == nil {
			continue
		}
		rel, err := filepath.Rel(layer.Dir, fullPath)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		check := rel
		if isDir {
			check += "/"
		}
		if layer.Parser.MatchesPath(check) {
			return true
		}
	}
	return false
}
