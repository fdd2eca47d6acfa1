// Command globlin is a CLI front-end over the globlin glob engine: expand
// one or more patterns against a directory tree and print the matches.
// Grounded on the teacher's own cmd wiring intent (its go.mod already
// declares cobra/pflag) and on Crystalix007-cli-tools/suggest-file's
// cobra-based shell subcommand for the command-tree shape.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/capsoftware/globlin/internal/cli"
	"github.com/spf13/cobra"
)

var cfg cli.Config

var rootCmd = &cobra.Command{
	Use:   "globlin [flags] PATTERN...",
	Short: "Expand glob patterns against a directory tree",
	Long: "globlin expands one or more glob patterns (brace groups, extglobs, " +
		"\"**\" recursion, POSIX character classes) against a directory tree " +
		"and prints the matching paths, one per line.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.Patterns = args
		code := cli.Run(cfg)
		if code == 2 {
			return fmt.Errorf("globlin: query failed")
		}
		os.Exit(code)
		return nil
	},
}

func init() {
	flags := rootCmd.Flags()

	flags.StringVar(&cfg.Cwd, "cwd", "", "directory patterns are resolved relative to (default: process cwd)")
	flags.StringVar(&cfg.Root, "root", "", "base directory for patterns beginning with \"/\"")
	flags.BoolVarP(&cfg.Absolute, "absolute", "A", false, "render every result as an absolute path")
	flags.BoolVarP(&cfg.Dot, "dot", "d", false, "allow \"*\" and \"?\" to match a leading dot")
	flags.BoolVarP(&cfg.Mark, "mark", "m", false, "append a trailing slash to directory results")
	flags.BoolVar(&cfg.NoDir, "no-dir", false, "exclude directories from the result set")
	flags.BoolVar(&cfg.DotRelative, "dot-relative", false, "prefix relative results with \"./\"")
	flags.BoolVar(&cfg.NoBrace, "no-brace", false, "disable {a,b,c} / {1..5} brace expansion")
	flags.BoolVar(&cfg.NoGlobstar, "no-globstar", false, "treat \"**\" as a plain \"*\"")
	flags.BoolVar(&cfg.NoExt, "no-ext", false, "disable extglob operators (@() +() *() ?() !())")
	flags.BoolVarP(&cfg.NoCase, "ignore-case", "i", false, "match case-insensitively")
	flags.BoolVarP(&cfg.FollowSymlinks, "follow", "L", false, "descend into directories reached via a symlink")
	flags.BoolVarP(&cfg.Parallel, "parallel", "j", false, "use the work-stealing parallel walker")
	flags.StringSliceVar(&cfg.Ignore, "ignore", nil, "glob pattern to exclude from the result set (repeatable)")
	flags.StringSliceVar(&cfg.IgnoreFiles, "ignore-file", nil, "gitignore-syntax file to layer in (repeatable)")
	flags.BoolVar(&cfg.NoGitignore, "no-gitignore", false, "disable automatic .gitignore discovery")
	flags.BoolVar(&cfg.BatchStat, "batch-stat", false, "resolve unknown dirent types via a single io_uring batch")
	flags.IntVar(&cfg.CacheSize, "cache-size", 0, "bound the compiled-pattern LRU cache (0 disables caching)")
	flags.BoolVar(&cfg.MatchBase, "match-base", false, "match a slash-free pattern's basename at any depth")
	flags.StringVar(&cfg.Platform, "platform", "", "force platform-dependent defaults (darwin, windows, linux)")
	flags.BoolVar(&cfg.Cache, "cache", false, "enable the short-TTL directory-listing cache")
	flags.DurationVar(&cfg.CacheTTL, "cache-ttl", 2*time.Second, "directory-listing cache entry lifetime")
	flags.IntVar(&cfg.DirCacheSize, "dir-cache-size", 0, "bound the directory-listing cache (0 uses the walker default)")
	flags.BoolVar(&cfg.Posix, "posix", false, "force forward-slash output separators regardless of host platform")
	flags.BoolVar(&cfg.JSONOutput, "json", false, "emit one JSON object per matched path instead of plain text")

	var maxDepth int
	flags.IntVar(&maxDepth, "max-depth", 0, "bound traversal depth below each pattern's base (0 = unbounded, -1 = no results)")
	var noChildMatches bool
	flags.BoolVar(&noChildMatches, "no-child-matches", false, "drop results that are strict descendants of another match")
	var colorMode string
	flags.StringVar(&colorMode, "color", "auto", "colorize output: auto, always, never")

	cobra.OnInitialize(func() {
		if maxDepth != 0 {
			d := maxDepth
			cfg.MaxDepth = &d
		}
		if noChildMatches {
			v := false
			cfg.IncludeChildMatches = &v
		}
		switch colorMode {
		case "always":
			cfg.Color = cli.ColorAlways
		case "never":
			cfg.Color = cli.ColorNever
		default:
			cfg.Color = cli.ColorAuto
		}
	})

	if extra := cli.LoadConfigArgs(); len(extra) > 0 {
		rootCmd.SetArgs(append(extra, os.Args[1:]...))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
