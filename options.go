package globlin

import (
	"runtime"
	"time"

	"github.com/capsoftware/globlin/internal/ignore"
	"github.com/capsoftware/globlin/internal/pattern"
	"github.com/capsoftware/globlin/internal/walker"
)

// Options configures a query, per spec §3's option table.
type Options struct {
	// Cwd is the directory patterns are resolved relative to. Empty means
	// the process's current working directory.
	Cwd string

	// Root is the base for a pattern that begins with "/" (an absolute
	// pattern). Empty means the filesystem root.
	Root string

	// Absolute projects every result as an absolute path.
	Absolute bool

	// Dot allows "*" and "?" to match a leading '.' in a path component.
	Dot bool

	// Mark appends a trailing separator to directory results.
	Mark bool

	// NoDir excludes directories from the result set entirely.
	NoDir bool

	// DotRelative prefixes relative results with "./".
	DotRelative bool

	// WithFileTypes does not change what a query returns: Glob and
	// WalkSync return plain path strings either way, and GlobSet.WalkTyped
	// returns entries carrying fs.FileInfo whether or not it is set.
	WithFileTypes bool

	// NoBrace disables {a,b,c} / {1..5} brace expansion.
	NoBrace bool

	// NoGlobstar treats "**" as a plain "*" instead of a recursive match.
	NoGlobstar bool

	// NoExt disables extglob operators (@() +() *() ?() !()).
	NoExt bool

	// NoCase matches case-insensitively.
	NoCase bool

	// WindowsPathsNoEscape treats '\' as a path separator instead of an
	// escape character, for callers working with Windows-style patterns.
	WindowsPathsNoEscape bool

	// FollowSymbolicLinks descends into directories reached via a symlink.
	FollowSymbolicLinks bool

	// SkipVCS prunes .git/.svn/.hg directories unconditionally. Nil means
	// true; set explicitly false to walk them.
	SkipVCS *bool

	// Parallel enables the work-stealing getdents64 walker instead of the
	// serial depth-first one. Worth it once a query covers enough files
	// that the fixed goroutine/queue overhead pays for itself.
	Parallel bool

	// Ignore holds extra glob patterns (compiled with the same flags as
	// the query) excluded from the result set.
	Ignore []string

	// IgnoreFiles holds paths to gitignore-syntax files applied at every
	// directory visited, in addition to any .gitignore found along the way.
	IgnoreFiles []string

	// NoGitignore disables .gitignore-file discovery when IgnoreFiles is
	// empty. With IgnoreFiles set, the .gitignore of each visited
	// directory is still layered in alongside those files.
	NoGitignore bool

	// BatchStat resolves DT_UNKNOWN dirent types via one io_uring
	// submission per directory instead of one stat(2) call each.
	BatchStat bool

	// CacheSize bounds the compiled-pattern LRU cache. Zero disables
	// caching.
	CacheSize int

	// MaxDepth bounds traversal depth below each pattern's base directory.
	// Nil means unbounded; -1 (per spec §3) makes every query return no
	// results.
	MaxDepth *int

	// MatchBase makes a slash-free pattern match its basename at any
	// depth, as if "**/"-prefixed.
	MatchBase bool

	// MagicalBraces makes HasMagic report a brace group as magic even
	// when NoBrace disables its expansion.
	MagicalBraces bool

	// Platform forces the platform-dependent defaults (currently NoCase)
	// spec §3 describes, overriding runtime.GOOS. Recognized values:
	// "darwin", "windows", "linux". Empty uses the running platform.
	Platform string

	// IncludeChildMatches, when explicitly set false, prunes a result
	// that is a strict descendant of another already-matched result
	// (spec §3's includeChildMatches). Nil/true is the default: children
	// are included even when their parent also matched.
	IncludeChildMatches *bool

	// Cache enables the short-TTL directory-listing cache, independent of
	// the compiled-pattern cache that CacheSize controls.
	Cache        bool
	CacheTTL     time.Duration
	DirCacheSize int

	// Posix forces forward-slash output separators regardless of host
	// platform (spec §3's posix option). False renders the platform's
	// native separator.
	Posix bool
}

func (o Options) includeChildMatches() bool {
	if o.IncludeChildMatches == nil {
		return true
	}
	return *o.IncludeChildMatches
}

func (o Options) effectiveNoCase() bool {
	if o.NoCase {
		return true
	}
	platform := o.Platform
	if platform == "" {
		platform = runtime.GOOS
	}
	return platform == "darwin" || platform == "windows"
}

func (o Options) rootOrDefault() string {
	if o.Root != "" {
		return o.Root
	}
	return "/"
}

func (o Options) skipVCS() bool {
	if o.SkipVCS == nil {
		return true
	}
	return *o.SkipVCS
}

func (o Options) compileOptions() pattern.CompileOptions {
	return pattern.CompileOptions{
		Dot:                  o.Dot,
		NoBrace:              o.NoBrace,
		NoGlobstar:           o.NoGlobstar,
		NoExt:                o.NoExt,
		NoCase:               o.effectiveNoCase(),
		WindowsPathsNoEscape: o.WindowsPathsNoEscape,
		MagicalBraces:        o.MagicalBraces,
		MatchBase:            o.MatchBase,
	}
}

func (o Options) walkOptions(ign *ignore.Ignorer) walker.Options {
	return walker.Options{
		Dot:            o.Dot,
		FollowSymlinks: o.FollowSymbolicLinks,
		Parallel:       o.Parallel,
		SkipVCS:        o.skipVCS(),
		BatchStat:      o.BatchStat,
		Ignorer:        ign,
		MaxDepth:       o.MaxDepth,
		Cache:          o.Cache,
		CacheSize:      o.DirCacheSize,
		CacheTTL:       o.CacheTTL,
	}
}

func (o Options) buildIgnorer(root string) (*ignore.Ignorer, error) {
	if len(o.Ignore) == 0 && o.NoGitignore && len(o.IgnoreFiles) == 0 {
		return nil, nil
	}
	ignorer := &ignore.Ignorer{Dot: o.Dot}

	if !o.NoGitignore || len(o.IgnoreFiles) > 0 {
		ignorer.Git = ignore.NewGitTree(root, o.IgnoreFiles...)
	}
	if len(o.Ignore) > 0 {
		g, err := ignore.NewGlobIgnorer(o.Ignore, o.compileOptions())
		if err != nil {
			return nil, err
		}
		ignorer.Glob = g
	}
	return ignorer, nil
}
