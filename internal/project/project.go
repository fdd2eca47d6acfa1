// Package project implements the Result Projector (spec §4.4): turning a
// matched candidate (root + path components + directory flag) into the
// final string or FileInfo-bearing result the caller sees, honoring
// absolute/dotRelative/mark/nodir/withFileTypes and deduplicating results
// that multiple patterns produced identically.
package project

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Options mirrors the subset of the public Options (spec §3) that affects
// how a matched path is projected into its final form.
type Options struct {
	Absolute      bool
	DotRelative   bool
	Mark          bool
	NoDir         bool
	WithFileTypes bool

	// CwdRoot anchors Absolute resolution when the query ran against a
	// directory other than the process's own working directory. Empty
	// means fall back to filepath.Abs's own (process-cwd-relative)
	// resolution.
	CwdRoot string

	// PruneChildren implements spec §3/§4.4's includeChildMatches=false:
	// a result is dropped if some other result in the set is a strict
	// ancestor of its path. Per the design notes (§9), this core applies
	// global tracking across every pattern rather than per-pattern
	// tracking.
	PruneChildren bool

	// Posix forces forward-slash output separators (spec §3's posix
	// option) regardless of host platform. False renders the platform's
	// native separator instead.
	Posix bool
}

// Entry is one projected result. Info is the fs.FileInfo the walker
// attached to the candidate, carried forward as-is whatever
// Options.WithFileTypes says; the projector never stats on its own.
type Entry struct {
	Path string
	Dir  bool
	Info fs.FileInfo
}

// Candidate is what the walker hands the projector for one matched path.
type Candidate struct {
	Root     string   // the base directory the walk started from (may be "" or ".")
	RelParts []string // path components below Root, in order
	IsDir    bool
	Info     fs.FileInfo
}

// Projector accumulates projected entries while deduplicating by final
// path string, since overlapping patterns (or multiple walk roots whose
// trees intersect via symlinks) can otherwise yield the same result twice.
type Projector struct {
	opts Options
	seen map[string]bool
	out  []Entry
}

func New(opts Options) *Projector {
	return &Projector{opts: opts, seen: map[string]bool{}}
}

// Add projects c and appends it to the result set if not already present.
// Returns false if c was filtered out (nodir) or was a duplicate.
func (p *Projector) Add(c Candidate) bool {
	if p.opts.NoDir && c.IsDir {
		return false
	}

	path := Assemble(c.Root, c.RelParts, c.IsDir, p.opts)
	if p.seen[path] {
		return false
	}
	p.seen[path] = true

	p.out = append(p.out, Entry{Path: path, Dir: c.IsDir, Info: c.Info})
	return true
}

// Results returns every projected entry added so far, in insertion order,
// minus any entry pruned by PruneChildren (includeChildMatches=false).
func (p *Projector) Results() []Entry {
	if !p.opts.PruneChildren || len(p.out) == 0 {
		return p.out
	}

	paths := make(map[string]bool, len(p.out))
	for _, e := range p.out {
		paths[strings.TrimSuffix(e.Path, "/")] = true
	}

	out := make([]Entry, 0, len(p.out))
	for _, e := range p.out {
		if hasAncestorIn(strings.TrimSuffix(e.Path, "/"), paths) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// hasAncestorIn reports whether any strict ancestor directory of path
// (split on '/') is itself present in the set of emitted paths.
func hasAncestorIn(path string, paths map[string]bool) bool {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] != '/' {
			continue
		}
		if ancestor := path[:i]; ancestor != "" && paths[ancestor] {
			return true
		}
	}
	return false
}

// Assemble implements the path-joining rules of spec §4.4 step 2: build
// the relative path from Root's components, apply absolute/dotRelative
// prefixing (mutually exclusive — absolute wins), then append the mark
// suffix for directories.
func Assemble(root string, relParts []string, isDir bool, opts Options) string {
	rel := joinRel(root, relParts)

	// The "."/"./" special case: an empty match against the dot pattern
	// itself projects as "." (or "./" with dotRelative, or with mark on a
	// directory), never expanded into an absolute cwd path unless Absolute
	// is explicitly set.
	if rel == "" {
		switch {
		case opts.Absolute:
			return toOutputSeparators(opts.absBase("."), opts.Posix)
		case opts.DotRelative || (opts.Mark && isDir):
			return toOutputSeparators("./", opts.Posix)
		default:
			return "."
		}
	}

	var out string
	switch {
	case opts.Absolute:
		out = opts.absBase(rel)
	case opts.DotRelative && !strings.HasPrefix(rel, "/"):
		out = "./" + rel
	default:
		out = rel
	}

	if opts.Mark && isDir && !strings.HasSuffix(out, "/") {
		out += "/"
	}
	return toOutputSeparators(out, opts.Posix)
}

// toOutputSeparators renders a "/"-joined path with forward slashes
// (posix=true, spec §3) or the platform's native separator otherwise.
func toOutputSeparators(s string, posix bool) string {
	if posix {
		return filepath.ToSlash(s)
	}
	return filepath.FromSlash(s)
}

// absBase resolves rel to an absolute path against CwdRoot when set,
// falling back to filepath.Abs (process-cwd-relative) otherwise.
func (opts Options) absBase(rel string) string {
	if opts.CwdRoot != "" {
		if filepath.IsAbs(rel) {
			return filepath.Clean(rel)
		}
		return filepath.Join(opts.CwdRoot, rel)
	}
	abs, err := filepath.Abs(rel)
	if err != nil {
		return rel
	}
	return abs
}

func joinRel(root string, relParts []string) string {
	var b strings.Builder
	if root != "" && root != "." {
		b.WriteString(root)
	}
	for _, part := range relParts {
		if b.Len() > 0 {
			b.WriteByte('/')
		}
		b.WriteString(part)
	}
	return b.String()
}
