// Package globlin implements a behavior-compatible, high-performance glob
// engine: pattern compilation (internal/pattern), traversal planning
// (internal/planner), filesystem walking (internal/walker), ignore-rule
// layering (internal/ignore), and result projection (internal/project),
// wired together here as the public API.
package globlin

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/capsoftware/globlin/internal/globerr"
	"github.com/capsoftware/globlin/internal/globlog"
	"github.com/capsoftware/globlin/internal/pattern"
	"github.com/capsoftware/globlin/internal/planner"
	"github.com/capsoftware/globlin/internal/project"
	"github.com/capsoftware/globlin/internal/walker"
)

// patternCache is the process-wide compiled-pattern cache spec §5 describes
// as "shared across queries" and guarded by "a short critical section on
// insertion" — pattern.Cache already serializes Put behind its own mutex,
// so one package-level instance is all every GlobSet needs. It is sized
// lazily by the first Options.CacheSize a caller supplies; later calls
// reuse that size rather than rebuilding the cache per query.
var (
	patternCacheOnce sync.Once
	patternCacheInst *pattern.Cache
)

func sharedPatternCache(size int) *pattern.Cache {
	if size <= 0 {
		return nil
	}
	patternCacheOnce.Do(func() {
		patternCacheInst = pattern.NewCache(size)
	})
	return patternCacheInst
}

// Glob implements spec §4's synchronous glob(patterns, options) -> []string
// entry point: compile, plan, walk, project, sorted and deduplicated.
func Glob(patterns []string, opts Options) ([]string, error) {
	gs, err := Compile(patterns, opts)
	if err != nil {
		return nil, err
	}
	defer gs.Close()
	return gs.WalkSync()
}

// HasMagic reports whether raw contains an unescaped glob metacharacter
// under opts' brace/extglob settings.
func HasMagic(raw string, opts Options) bool {
	return pattern.HasMagic(raw, opts.NoBrace, opts.NoExt, opts.MagicalBraces)
}

// Escape returns raw with every glob metacharacter escaped so Compile
// treats it as one literal path.
func Escape(raw string) string { return pattern.Escape(raw) }

// Unescape reverses Escape.
func Unescape(raw string) string { return pattern.Unescape(raw) }

// GlobSet is a compiled, planned query: the reusable handle spec §9's
// design notes describe for repeated or streaming use, so the compile and
// plan steps aren't repeated per call.
type GlobSet struct {
	patterns []*pattern.Pattern
	cached   bool // patterns live in the shared cache; Close must not touch them
	plan     *planner.WalkPlan
	opts     Options
	root     string // cwd anchor for relative patterns
	absRoot  string // anchor for patterns beginning with "/" (opts.Root)
	log      *globlog.Logger
}

// Compile compiles and plans patterns once, returning a reusable GlobSet.
// Callers that only need one Glob call can use the package-level Glob
// function instead; GlobSet exists for repeated queries, async/streaming
// consumption, and CLI tooling that wants to report planning separately
// from walking.
func Compile(patterns []string, opts Options) (*GlobSet, error) {
	root := opts.Cwd
	if root == "" {
		if wd, err := os.Getwd(); err == nil {
			root = wd
		}
	}

	cache := sharedPatternCache(opts.CacheSize)
	compiled, err := pattern.CompileCached(cache, patterns, opts.compileOptions())
	if err != nil {
		return nil, err
	}

	wp := planner.Plan(compiled, "")

	return &GlobSet{
		patterns: compiled,
		cached:   cache != nil,
		plan:     wp,
		opts:     opts,
		root:     root,
		absRoot:  opts.rootOrDefault(),
		log:      globlog.New(nil),
	}, nil
}

// anchorFor returns the directory a base's walk should actually run
// against: opts.Root for a pattern that began with "/", the query's cwd
// otherwise (spec §3's root/cwd split).
func (gs *GlobSet) anchorFor(base *planner.Base) string {
	if base.Pattern != nil && base.Pattern.Absolute {
		return gs.absRoot
	}
	return gs.root
}

// Close releases any PCRE resources held by the compiled patterns. When
// opts.CacheSize put these patterns in the shared cache, they may still be
// handed out to other GlobSets on a cache hit, so Close leaves them alone —
// only the cache's own LRU eviction is allowed to release them.
func (gs *GlobSet) Close() {
	if gs.cached {
		return
	}
	for _, p := range gs.patterns {
		p.Close()
	}
}

// WalkSync runs every base's walk to completion and returns the
// deduplicated, sorted result paths — the synchronous glob() contract.
func (gs *GlobSet) WalkSync() ([]string, error) {
	entries, err := gs.collect(context.Background())
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	sort.Strings(paths)
	return paths, nil
}

// WalkTyped is WalkSync's withFileTypes counterpart: every result carries
// its fs.FileInfo captured during the walk, never re-stat'd.
func (gs *GlobSet) WalkTyped(ctx context.Context) ([]project.Entry, error) {
	entries, err := gs.collect(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

func (gs *GlobSet) collect(ctx context.Context) ([]project.Entry, error) {
	if gs.opts.MaxDepth != nil && *gs.opts.MaxDepth == -1 {
		return nil, nil
	}

	proj := project.New(project.Options{
		Absolute:      gs.opts.Absolute,
		DotRelative:   gs.opts.DotRelative,
		Mark:          gs.opts.Mark,
		NoDir:         gs.opts.NoDir,
		WithFileTypes: gs.opts.WithFileTypes,
		CwdRoot:       gs.root,
		PruneChildren: !gs.opts.includeChildMatches(),
		Posix:         gs.opts.Posix,
	})

	for _, base := range gs.plan.Bases {
		anchor := gs.anchorFor(base)
		dir := base.Dir
		if dir == "" {
			dir = "."
		}
		fullDir := filepath.Join(anchor, dir)
		ignorer, err := gs.opts.buildIgnorer(fullDir)
		if err != nil {
			return nil, err
		}

		candidateRoot := gs.candidateRoot(base, anchor)

		wopts := gs.opts.walkOptions(ignorer)
		wopts.Log = gs.log

		emitted := 0
		walkErr := walker.Walk(ctx, base, anchor, wopts, func(c walker.Candidate) {
			proj.Add(project.Candidate{
				Root:     candidateRoot,
				RelParts: c.RelParts,
				IsDir:    c.IsDir,
				Info:     c.Info,
			})
			emitted++
		})
		if walkErr != nil {
			if _, ok := walkErr.(*globerr.Cancelled); ok {
				return nil, &globerr.Cancelled{Emitted: emitted}
			}
			gs.log.Warn("walk error", "dir", fullDir, "err", walkErr)
		}
	}

	return proj.Results(), nil
}

// candidateRoot is the Root string handed to project.Assemble for one
// base's candidates: the literal prefix alone for a cwd-relative pattern
// (so Assemble can still apply Absolute/DotRelative against gs.root), or
// the fully resolved anchor+prefix for a pattern anchored at opts.Root,
// which must render as an absolute path regardless of the Absolute option.
func (gs *GlobSet) candidateRoot(base *planner.Base, anchor string) string {
	if base.Pattern != nil && base.Pattern.Absolute {
		if base.Dir == "" {
			return anchor
		}
		return filepath.ToSlash(filepath.Join(anchor, base.Dir))
	}
	return base.Dir
}

// Stream runs the walk in a background goroutine and pushes every matched
// path onto the returned channel as it's found, closing it when the walk
// completes or ctx is cancelled — the push-based streaming mode from
// spec §9's design notes, useful when the caller wants to start acting on
// early matches before the whole tree is walked.
func (gs *GlobSet) Stream(ctx context.Context) <-chan string {
	out := make(chan string, 256)
	if gs.opts.MaxDepth != nil && *gs.opts.MaxDepth == -1 {
		close(out)
		return out
	}
	go func() {
		defer close(out)
		for _, base := range gs.plan.Bases {
			anchor := gs.anchorFor(base)
			dir := base.Dir
			if dir == "" {
				dir = "."
			}
			fullDir := filepath.Join(anchor, dir)
			ignorer, err := gs.opts.buildIgnorer(fullDir)
			if err != nil {
				gs.log.Warn("ignore setup failed", "dir", fullDir, "err", err)
				continue
			}

			candidateRoot := gs.candidateRoot(base, anchor)
			seen := map[string]bool{}
			projOpts := project.Options{
				Absolute:    gs.opts.Absolute,
				DotRelative: gs.opts.DotRelative,
				Mark:        gs.opts.Mark,
				NoDir:       gs.opts.NoDir,
				CwdRoot:     gs.root,
				Posix:       gs.opts.Posix,
			}
			wopts := gs.opts.walkOptions(ignorer)
			wopts.Log = gs.log
			err = walker.Walk(ctx, base, anchor, wopts, func(c walker.Candidate) {
				if gs.opts.NoDir && c.IsDir {
					return
				}
				path := project.Assemble(candidateRoot, c.RelParts, c.IsDir, projOpts)
				if seen[path] {
					return
				}
				seen[path] = true
				select {
				case out <- path:
				case <-ctx.Done():
				}
			})
			if err != nil {
				if _, ok := err.(*globerr.Cancelled); ok {
					return
				}
				gs.log.Warn("walk error", "dir", fullDir, "err", err)
			}
		}
	}()
	return out
}

// Iterate returns a pull-based generator: each call to the returned
// function blocks until the next match is ready (or the walk is
// exhausted), per spec §9's iterator design note. It's built on Stream, so
// cancelling ctx also stops the underlying walk.
func (gs *GlobSet) Iterate(ctx context.Context) func() (string, bool) {
	ch := gs.Stream(ctx)
	return func() (string, bool) {
		path, ok := <-ch
		return path, ok
	}
}

// InfoOf is a convenience accessor for callers holding a project.Entry from
// WalkTyped who want the stdlib fs.FileInfo shape without importing
// internal/project themselves.
func InfoOf(e project.Entry) fs.FileInfo { return e.Info }
