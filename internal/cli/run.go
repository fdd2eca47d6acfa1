package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/capsoftware/globlin"
	"github.com/capsoftware/globlin/internal/output"
)

// logWarn writes a warning to stderr.
func logWarn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "globlin: "+format+"\n", args...)
}

// Run executes a glob query with the given config, writing matched paths to
// stdout. Returns exit code: 0 = at least one match, 1 = no match, 2 = error.
func Run(cfg Config) int {
	if err := cfg.Validate(); err != nil {
		logWarn("%v", err)
		return 2
	}

	opts := cfg.toOptions()

	gs, err := globlin.Compile(cfg.Patterns, opts)
	if err != nil {
		logWarn("invalid pattern: %v", err)
		return 2
	}
	defer gs.Close()

	useColor := false
	switch cfg.Color {
	case ColorAlways:
		useColor = true
	case ColorNever:
		useColor = false
	case ColorAuto:
		useColor = output.StdoutIsTerminal()
	}

	var formatter output.Formatter
	if cfg.JSONOutput {
		formatter = output.NewJSONFormatter()
	} else {
		styles := output.NoStyles()
		if useColor {
			styles = output.NewStyles()
		}
		formatter = output.NewTextFormatter(styles, useColor)
	}

	w := output.NewWriter()

	entries, err := gs.WalkTyped(context.Background())
	if err != nil {
		logWarn("%v", err)
		return 2
	}

	var buf []byte
	for i, e := range entries {
		buf = formatter.Format(buf[:0], output.Result{Entry: e, SeqNum: i + 1})
		if werr := w.Write(buf); werr != nil {
			logWarn("write: %v", werr)
			return 2
		}
	}

	if len(entries) > 0 {
		return 0
	}
	return 1
}

func (c Config) toOptions() globlin.Options {
	return globlin.Options{
		Cwd:                  c.Cwd,
		Root:                 c.Root,
		Absolute:             c.Absolute,
		Dot:                  c.Dot,
		Mark:                 c.Mark,
		NoDir:                c.NoDir,
		DotRelative:          c.DotRelative,
		WithFileTypes:        c.WithFileTypes,
		NoBrace:              c.NoBrace,
		NoGlobstar:           c.NoGlobstar,
		NoExt:                c.NoExt,
		NoCase:               c.NoCase,
		WindowsPathsNoEscape: c.WindowsPathsNoEscape,
		FollowSymbolicLinks:  c.FollowSymlinks,
		SkipVCS:              c.SkipVCS,
		Parallel:             c.Parallel,
		Ignore:               c.Ignore,
		IgnoreFiles:          c.IgnoreFiles,
		NoGitignore:          c.NoGitignore,
		BatchStat:            c.BatchStat,
		CacheSize:            c.CacheSize,
		MaxDepth:             c.MaxDepth,
		MatchBase:            c.MatchBase,
		MagicalBraces:        c.MagicalBraces,
		Platform:             c.Platform,
		IncludeChildMatches:  c.IncludeChildMatches,
		Cache:                c.Cache,
		CacheTTL:             c.CacheTTL,
		DirCacheSize:         c.DirCacheSize,
		Posix:                c.Posix,
	}
}

