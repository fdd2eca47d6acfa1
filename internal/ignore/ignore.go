package ignore

// vcsDirs lists directory names skipped by default (Options.SkipVCS), the
// supplemented feature noted in the expanded spec's traversal section.
var vcsDirs = map[string]bool{
	".git": true,
	".svn": true,
	".hg":  true,
}

// IsVCSDir reports whether name is a version-control metadata directory
// that SkipVCS should prune regardless of glob/gitignore rules.
func IsVCSDir(name string) bool {
	return vcsDirs[name]
}

// Ignorer is the combined view the walker consults once per candidate: the
// gitignore-style layered tree (directory-scoped) plus the flat glob
// ignorer (root-relative). Either half may be nil.
type Ignorer struct {
	Git  *GitTree
	Glob *GlobIgnorer
	Dot  bool
}

// Ignored reports whether relPath should be excluded from results.
func (i *Ignorer) Ignored(fullPath, relPath string, isDir bool) bool {
	if i == nil {
		return false
	}
	if i.Git != nil && i.Git.Ignored(fullPath, isDir) {
		return true
	}
	if i.Glob != nil && i.Glob.Matches(relPath, i.Dot) {
		return true
	}
	return false
}

// Descend returns an Ignorer for a child directory, carrying the glob
// ignorer (path-independent) and a deeper git tree.
func (i *Ignorer) Descend(childDir string) *Ignorer {
	if i == nil {
		return nil
	}
	next := &Ignorer{Glob: i.Glob, Dot: i.Dot}
	if i.Git != nil {
		next.Git = i.Git.Descend(childDir)
	}
	return next
}
