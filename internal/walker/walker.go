// Package walker implements the Filesystem Walker (spec §4.3): directory
// traversal driven by a single compiled pattern's planner.Base, using raw
// getdents64 for the directory listing, serial (depth-first, lexicographic)
// or parallel (work-stealing queue) traversal, per-segment pruning so a
// subtree that can't possibly contain a match is never opened, ignore-layer
// consultation, symlink cycle detection, and cooperative cancellation
// polled at directory boundaries. Grounded on the teacher's own
// walker.go/dirent.go (the getdents64 parsing, the parallel queue
// structure, joinPath's single-allocation path join), generalized from a
// fixed include/exclude-glob walk into one driven by a planner.Base's
// per-depth pruning predicate.
package walker

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/capsoftware/globlin/internal/globerr"
	"github.com/capsoftware/globlin/internal/globlog"
	"github.com/capsoftware/globlin/internal/ignore"
	"github.com/capsoftware/globlin/internal/planner"
)

// Options configures one Walk call.
type Options struct {
	Dot            bool
	FollowSymlinks bool
	Parallel       bool
	SkipVCS        bool
	BatchStat      bool // resolve DT_UNKNOWN entries via io_uring instead of one stat(2) each
	Ignorer        *ignore.Ignorer

	// MaxDepth bounds how many directory levels below the walk's base are
	// descended into. Nil means unbounded (beyond whatever the pattern
	// itself already bounds); spec §3's maxDepth option.
	MaxDepth *int

	// Cache enables the short-TTL directory-listing cache (spec §3/§5's
	// `cache` option); CacheTTL/CacheSize size it. Ignored when false.
	Cache     bool
	CacheSize int
	CacheTTL  time.Duration

	// Log receives the warnings the walker emits when it swallows a
	// permission-denied or other transient I/O error (spec §7). Nil uses
	// globlog's package default.
	Log *globlog.Logger
}

// Candidate is one matched path handed back to the caller (the top-level
// API feeds these into the Result Projector).
type Candidate struct {
	RelParts []string
	IsDir    bool
	Info     os.FileInfo
}

// Emit receives every matched candidate. It must not block for long —
// Walk calls it synchronously from whichever goroutine found the match.
type Emit func(Candidate)

type devIno struct {
	dev, ino uint64
}

// Walk traverses the subtree rooted at root+base.Dir, applying base's
// per-segment pruning and calling emit for every path that satisfies
// base.Remaining. A base.Static pattern is resolved with a single stat
// instead of a directory walk.
func Walk(ctx context.Context, base *planner.Base, root string, opts Options, emit Emit) error {
	startDir := root
	if base.Dir != "" {
		if root == "" || root == "." {
			startDir = base.Dir
		} else {
			startDir = filepath.Join(root, base.Dir)
		}
	}
	if startDir == "" {
		startDir = "."
	}

	if base.Static {
		return walkStatic(startDir, base, opts, emit)
	}

	// A Remaining made entirely of recursive (globstar) segments is
	// satisfied by zero components too, so the base directory itself is a
	// candidate — e.g. "a/**" matches "a" as well as everything under it.
	// Neither the serial nor the parallel loop below ever looks at its own
	// starting directory (only at the entries inside it), so that match
	// has to be recognized here, once, before descending.
	emitBaseIfMatches(startDir, base, opts, emit)

	var cache *dirCache
	if opts.Cache {
		size := opts.CacheSize
		if size <= 0 {
			size = 4096
		}
		ttl := opts.CacheTTL
		if ttl <= 0 {
			ttl = 2 * time.Second
		}
		cache = newDirCache(size, ttl)
	}

	log := opts.Log
	if log == nil {
		log = globlog.New(nil)
	}

	w := &walker{ctx: ctx, base: base, opts: opts, emit: emit, cache: cache, log: log}
	if opts.Parallel {
		return w.walkParallel(startDir)
	}
	return w.walkSerial(startDir, nil, opts.Ignorer, nil)
}

func emitBaseIfMatches(startDir string, base *planner.Base, opts Options, emit Emit) {
	if !base.MatchCandidate(nil, opts.Dot) {
		return
	}
	info, err := os.Lstat(startDir)
	if err != nil || !info.IsDir() {
		return
	}
	if opts.Ignorer != nil && opts.Ignorer.Ignored(startDir, "", true) {
		return
	}
	emit(Candidate{RelParts: nil, IsDir: true, Info: info})
}

func walkStatic(fullPath string, base *planner.Base, opts Options, emit Emit) error {
	info, err := os.Lstat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &globerr.WalkError{Path: fullPath, Err: err}
	}
	if opts.Ignorer != nil && opts.Ignorer.Ignored(fullPath, base.StaticRel, info.IsDir()) {
		return nil
	}
	// StaticRel equals base.Dir, which the projector already uses as the
	// candidate's root, so the match itself has no components below it.
	emit(Candidate{RelParts: nil, IsDir: info.IsDir(), Info: info})
	return nil
}

type walker struct {
	ctx    context.Context
	base   *planner.Base
	opts   Options
	emit   Emit
	emitMu sync.Mutex
	cache  *dirCache
	log    *globlog.Logger
}

func (w *walker) cancelled() bool {
	select {
	case <-w.ctx.Done():
		return true
	default:
		return false
	}
}

func (w *walker) emitSafe(c Candidate) {
	if w.opts.Parallel {
		w.emitMu.Lock()
		defer w.emitMu.Unlock()
	}
	w.emit(c)
}

// --- serial walker: depth-first, lexicographically ordered -----------------

func (w *walker) walkSerial(dirPath string, relParts []string, ign *ignore.Ignorer, chain []devIno) error {
	if w.cancelled() {
		return &globerr.Cancelled{}
	}

	entries, err := w.readDirCached(dirPath)
	if err != nil {
		// Permission-denied and other transient readdir failures are
		// swallowed per §7: this subtree contributes nothing, but siblings
		// already queued at the caller's level must still be visited.
		w.log.Warn("walk error", "dir", dirPath, "err", err)
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	depth := len(relParts)
	for _, entry := range entries {
		err := w.visit(dirPath, relParts, depth, entry, ign, chain, w.walkSerial)
		if err == nil {
			continue
		}
		switch err.(type) {
		case *globerr.Cancelled, *globerr.SymlinkLoop:
			return err
		default:
			w.log.Warn("walk error", "dir", dirPath, "err", err)
		}
	}
	return nil
}

type recurseFn func(dirPath string, relParts []string, ign *ignore.Ignorer, chain []devIno) error

// visit classifies one directory entry, applies the dot/VCS/ignore/prune
// filters, emits it if it satisfies base.Remaining, and recurses into it
// (via the supplied recurse callback — direct for the serial walker,
// queue-appending for the parallel one) when it's a directory worth
// descending into.
func (w *walker) visit(dirPath string, relParts []string, depth int, entry Dirent, ign *ignore.Ignorer, chain []devIno, recurse recurseFn) error {
	name := entry.Name
	if hidden := len(name) > 0 && name[0] == '.'; hidden && !w.opts.Dot {
		allowHidden := !w.base.Unbounded && depth < len(w.base.Remaining) && w.base.Remaining[depth].ExplicitDot
		if !allowHidden {
			return nil
		}
	}

	isDir := entry.Type == DT_DIR
	isLink := entry.Type == DT_LNK

	if w.opts.SkipVCS && isDir && ignore.IsVCSDir(name) {
		return nil
	}

	childRel := make([]string, len(relParts)+1)
	copy(childRel, relParts)
	childRel[len(relParts)] = name
	fullPath := joinPath(dirPath, name)

	if isLink {
		target, err := os.Stat(fullPath)
		if err != nil {
			return nil // broken symlink, silently skipped
		}
		isDir = target.IsDir()
		if isDir && !w.opts.FollowSymlinks {
			return nil
		}
	}

	if ign != nil && ign.Ignored(fullPath, strings.Join(childRel, "/"), isDir) {
		return nil
	}

	boundedPrune := !w.base.Unbounded && depth < len(w.base.Remaining) && w.base.PruneDir(depth, name, w.opts.Dot)
	if boundedPrune {
		return nil
	}

	if w.base.MatchCandidate(childRel, w.opts.Dot) {
		info, _ := os.Lstat(fullPath)
		w.emitSafe(Candidate{RelParts: childRel, IsDir: isDir, Info: info})
	}

	if !isDir {
		return nil
	}

	if w.opts.MaxDepth != nil && depth+1 > *w.opts.MaxDepth {
		return nil
	}

	nextChain := chain
	if isLink {
		var st unix.Stat_t
		if err := unix.Stat(fullPath, &st); err == nil {
			key := devIno{dev: uint64(st.Dev), ino: st.Ino}
			for _, c := range chain {
				if c == key {
					return &globerr.SymlinkLoop{Path: fullPath}
				}
			}
			nextChain = append(append([]devIno{}, chain...), key)
		}
	}

	// Nothing left in the pattern to satisfy below this directory.
	if !w.base.Unbounded && depth+1 >= len(w.base.Remaining) {
		return nil
	}

	childIgn := ign
	if ign != nil {
		childIgn = ign.Descend(fullPath)
	}
	return recurse(fullPath, childRel, childIgn, nextChain)
}

// --- parallel walker: work-stealing queue over raw getdents64 -------------

type walkItem struct {
	path     string
	relParts []string
	ignorer  *ignore.Ignorer
	chain    []devIno
}

func (w *walker) walkParallel(startDir string) error {
	pw := &parallelRun{w: w}
	pw.cond = sync.NewCond(&pw.mu)
	pw.enqueue(walkItem{path: startDir, ignorer: w.opts.Ignorer})

	workers := runtime.NumCPU()
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pw.worker()
		}()
	}
	wg.Wait()
	return pw.firstErr
}

type parallelRun struct {
	w *walker

	mu       sync.Mutex
	queue    []walkItem
	pending  int
	cond     *sync.Cond
	done     bool
	firstErr error
}

func (pw *parallelRun) enqueue(item walkItem) {
	pw.mu.Lock()
	pw.queue = append(pw.queue, item)
	pw.pending++
	pw.mu.Unlock()
	pw.cond.Signal()
}

func (pw *parallelRun) dequeue() (walkItem, bool) {
	pw.mu.Lock()
	for len(pw.queue) == 0 && !pw.done {
		pw.cond.Wait()
	}
	if pw.done && len(pw.queue) == 0 {
		pw.mu.Unlock()
		return walkItem{}, false
	}
	item := pw.queue[0]
	pw.queue = pw.queue[1:]
	pw.mu.Unlock()
	return item, true
}

func (pw *parallelRun) finish() {
	pw.mu.Lock()
	pw.pending--
	if pw.pending == 0 && len(pw.queue) == 0 {
		pw.done = true
		pw.cond.Broadcast()
	}
	pw.mu.Unlock()
}

func (pw *parallelRun) recordErr(err error) {
	pw.mu.Lock()
	if pw.firstErr == nil {
		pw.firstErr = err
	}
	pw.mu.Unlock()
}

func (pw *parallelRun) worker() {
	for {
		item, ok := pw.dequeue()
		if !ok {
			return
		}
		pw.processDir(item)
		pw.finish()
	}
}

func (pw *parallelRun) processDir(item walkItem) {
	w := pw.w
	if w.cancelled() {
		pw.recordErr(&globerr.Cancelled{})
		return
	}

	entries, err := w.readDirCached(item.path)
	if err != nil {
		pw.recordErr(&globerr.WalkError{Path: item.path, Err: err})
		return
	}

	depth := len(item.relParts)
	var subdirs []walkItem
	recurseInto := func(path string, relParts []string, ign *ignore.Ignorer, chain []devIno) error {
		subdirs = append(subdirs, walkItem{path: path, relParts: relParts, ignorer: ign, chain: chain})
		return nil
	}
	for _, entry := range entries {
		if err := w.visit(item.path, item.relParts, depth, entry, item.ignorer, item.chain, recurseInto); err != nil {
			pw.recordErr(err)
			if _, ok := err.(*globerr.SymlinkLoop); !ok {
				return
			}
		}
	}

	for _, sub := range subdirs {
		pw.enqueue(sub)
	}
}

// --- directory listing ------------------------------------------------------

// readDirCached consults the walker's dirCache (if enabled) before falling
// back to a fresh readDir, populating the cache on a miss.
func (w *walker) readDirCached(dirPath string) ([]Dirent, error) {
	if w.cache == nil {
		return readDir(dirPath, w.opts.BatchStat)
	}
	if entries, ok := w.cache.get(dirPath); ok {
		return entries, nil
	}
	entries, err := readDir(dirPath, w.opts.BatchStat)
	if err != nil {
		return nil, err
	}
	w.cache.put(dirPath, entries)
	return entries, nil
}

// readDir opens dirPath, drains every entry via getdents64 (looping until
// the kernel reports zero bytes, since a large directory spans multiple
// buffers), and resolves every DT_UNKNOWN entry: in one io_uring
// submission when batchStat is set, otherwise with one stat call each.
func readDir(dirPath string, batchStat bool) ([]Dirent, error) {
	fd, err := unix.Open(dirPath, unix.O_RDONLY|unix.O_DIRECTORY, 0)
	if err != nil {
		return nil, err
	}
	defer unix.Close(fd)

	buf := make([]byte, 32*1024)
	var all []Dirent
	for {
		n, err := unix.Getdents(fd, buf)
		if err != nil {
			return all, err
		}
		if n == 0 {
			break
		}
		all = append(all, ParseDirents(buf, n, nil)...)
	}

	if batchStat {
		resolveUnknown(fd, all)
	} else {
		for i := range all {
			if all[i].Type == DT_UNKNOWN {
				all[i].Type = statFallback(int32(fd), []string{all[i].Name})[0]
			}
		}
	}
	return all, nil
}

func resolveUnknown(fd int, entries []Dirent) {
	var idx []int
	var names []string
	for i, e := range entries {
		if e.Type == DT_UNKNOWN {
			idx = append(idx, i)
			names = append(names, e.Name)
		}
	}
	if len(names) == 0 {
		return
	}
	bs := newBatchStatter()
	defer bs.close()
	types := bs.resolveTypes(int32(fd), names)
	for j, i := range idx {
		entries[i].Type = types[j]
	}
}

// joinPath concatenates a directory and entry name with a single separator,
// avoiding filepath.Join's Clean/validation overhead for the hot path.
func joinPath(dirPath, name string) string {
	needsSep := len(dirPath) == 0 || dirPath[len(dirPath)-1] != '/'
	n := len(dirPath) + len(name)
	if needsSep {
		n++
	}
	buf := make([]byte, n)
	copy(buf, dirPath)
	i := len(dirPath)
	if needsSep {
		buf[i] = '/'
		i++
	}
	copy(buf[i:], name)
	return unsafe.String(&buf[0], len(buf))
}
