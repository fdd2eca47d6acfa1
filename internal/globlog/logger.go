// Package globlog provides the structured diagnostics used across the core:
// permission-denied directories, broken symlinks, unreadable ignore files.
// It wraps github.com/charmbracelet/log the way the teacher's CLI wrapped
// fmt.Fprintf(os.Stderr, ...) — a single leveled helper instead of scattering
// raw writes through the walker and scheduler.
package globlog

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Logger is a leveled logger tagged with a query id, so log lines from
// concurrent Walk calls can be told apart without passing a context value
// through every frame.
type Logger struct {
	base    *log.Logger
	queryID string
}

var (
	defaultOnce sync.Once
	defaultBase *log.Logger
)

func defaultLogger() *log.Logger {
	defaultOnce.Do(func() {
		defaultBase = log.NewWithOptions(os.Stderr, log.Options{
			Level:           log.WarnLevel,
			ReportTimestamp: false,
			Prefix:          "globlin",
		})
	})
	return defaultBase
}

// New creates a Logger for a single query, stamping every line with a fresh
// query id. Pass a nil base to use the package default (warn level, stderr).
func New(base *log.Logger) *Logger {
	if base == nil {
		base = defaultLogger()
	}
	return &Logger{base: base, queryID: uuid.NewString()}
}

// With returns a derived Logger carrying the same query id but an
// additional key/value pair attached to every subsequent line, mirroring
// charmbracelet/log's own With.
func (l *Logger) With(keyvals ...any) *Logger {
	return &Logger{base: l.base.With(keyvals...), queryID: l.queryID}
}

func (l *Logger) fields(extra ...any) []any {
	return append([]any{"query", l.queryID}, extra...)
}

// Warn logs a recoverable problem the walker swallowed and continued past:
// a permission-denied directory, a broken symlink, an unparsable ignore
// file. These never abort a query (§7 favors completeness over strictness).
func (l *Logger) Warn(msg string, keyvals ...any) {
	l.base.Warn(msg, l.fields(keyvals...)...)
}

// Debug logs traversal-internal detail: pruning decisions, base directory
// derivation, cache hits. Silent at the default warn level.
func (l *Logger) Debug(msg string, keyvals ...any) {
	l.base.Debug(msg, l.fields(keyvals...)...)
}

// QueryID returns the id stamped on this logger's lines.
func (l *Logger) QueryID() string {
	return l.queryID
}
