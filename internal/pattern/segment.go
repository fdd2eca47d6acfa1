// Package pattern implements the Pattern Compiler: parsing a glob pattern
// into a segment sequence, expanding braces, classifying each segment, and
// producing a matcher (regex or fast-path predicate). It is grounded on the
// teacher's internal/matcher package — factory.go's cheap-matcher-first
// dispatch, literal.go's regexp/syntax AST walk, and ahocorasick.go's
// single-pass multi-literal search — retargeted from searching file content
// to matching one path component at a time.
package pattern

import "regexp/syntax"

// Kind classifies a compiled Segment.
type Kind int

const (
	KindLiteral Kind = iota
	KindWildcard
	KindFastPath
)

// WildcardKind distinguishes a single-component wildcard from a globstar.
type WildcardKind int

const (
	SingleSegment WildcardKind = iota
	RecursiveGlobstar
)

// FastVariant enumerates the fast-path predicate shapes from spec §3.
type FastVariant int

const (
	ExtensionOnly FastVariant = iota
	ExtensionSet
	LiteralName
	RecursiveExtension
	RecursiveExtensionSet
)

// regexMatcher is satisfied by both *regexp.Regexp (RE2) and *pcre.Regexp
// (PCRE2-via-pure-Go), letting a Segment hold either without the rest of
// the compiler caring which engine produced it.
type regexMatcher interface {
	Match([]byte) bool
}

// closer is implemented by matchers that hold external resources (the PCRE
// engine) that must be released when evicted from the compiled-pattern
// cache.
type closer interface {
	Close()
}

// FastPath is a segment whose matching bypasses regex entirely for the
// common cases (a bare extension, a small extension set, an exact literal
// name after extglob reduction). Fallback is always populated so a
// misclassification — or a caller that wants parity verification — can
// fall back to the regex translation.
type FastPath struct {
	Variant  FastVariant
	Ext      string       // ExtensionOnly / RecursiveExtension
	ExtSet   *extSetMatcher // ExtensionSet / RecursiveExtensionSet
	Name     string       // LiteralName
	Fallback regexMatcher
}

// Match reports whether name (a single path component, already known not to
// be "." or "..") satisfies this fast path. dotOK reports whether dotfiles
// are permitted to match at this position (global dot=true, or this
// segment's pattern explicitly began with a literal '.').
func (fp *FastPath) Match(name string, dotOK bool) bool {
	if !dotOK && len(name) > 0 && name[0] == '.' && fp.Variant != LiteralName {
		return false
	}
	switch fp.Variant {
	case ExtensionOnly, RecursiveExtension:
		return len(name) > len(fp.Ext) && hasSuffixFold(name, fp.Ext, fp.ci())
	case ExtensionSet, RecursiveExtensionSet:
		return fp.ExtSet.MatchSuffix(name)
	case LiteralName:
		if fp.ci() {
			return equalFold(name, fp.Name)
		}
		return name == fp.Name
	default:
		return false
	}
}

func (fp *FastPath) ci() bool {
	if fp.ExtSet != nil {
		return fp.ExtSet.ignoreCase
	}
	return false
}

// Segment is one path component of a compiled Pattern.
type Segment struct {
	Kind Kind

	Literal string // KindLiteral: exact string, no magic

	WildcardKind WildcardKind  // KindWildcard
	Regex        regexMatcher  // KindWildcard fallback/primary matcher

	Fast *FastPath // KindFastPath

	// ExplicitDot is true when this segment's raw pattern text itself began
	// with a literal '.', e.g. ".config" or ".*". Such a segment is allowed
	// to match a dotfile even when the query's dot option is false — see
	// spec §4.3 step 2c.
	ExplicitDot bool

	raw string // original segment text, kept for diagnostics
}

// Matches reports whether name (one path component) satisfies this
// segment, honoring the dot-matching rule in the global-dot/explicit-dot
// combination described above.
func (s *Segment) Matches(name string, dot bool) bool {
	dotOK := dot || s.ExplicitDot
	if !dotOK && len(name) > 0 && name[0] == '.' && s.Kind != KindLiteral {
		return false
	}
	switch s.Kind {
	case KindLiteral:
		return name == s.Literal
	case KindFastPath:
		return s.Fast.Match(name, dotOK)
	case KindWildcard:
		return s.Regex.Match([]byte(name))
	}
	return false
}

// IsRecursive reports whether this segment is (or stands in for) a globstar
// — either an explicit ** segment, or a collapsed Recursive fast path.
func (s *Segment) IsRecursive() bool {
	if s.Kind == KindWildcard && s.WildcardKind == RecursiveGlobstar {
		return true
	}
	if s.Kind == KindFastPath && (s.Fast.Variant == RecursiveExtension || s.Fast.Variant == RecursiveExtensionSet) {
		return true
	}
	return false
}

// HasMagic reports whether this segment was classified as anything other
// than a plain literal. The public HasMagic query works on the raw pattern
// text instead (see HasMagic in escape.go).
func (s *Segment) HasMagic() bool {
	return s.Kind != KindLiteral
}

// astIsLiteral reports whether a compiled regexp's AST reduces to a single
// required literal string, mirroring the teacher's extractLiteral — used to
// decide whether an extglob-bearing segment can still be classified as
// LiteralName (e.g. "@(foo)" parses to exactly "foo").
func astIsLiteral(re *syntax.Regexp) (string, bool) {
	re = re.Simplify()
	switch re.Op {
	case syntax.OpLiteral:
		return string(re.Rune), true
	case syntax.OpConcat:
		all := ""
		for _, sub := range re.Sub {
			lit, ok := astIsLiteral(sub)
			if !ok {
				return "", false
			}
			all += lit
		}
		return all, true
	case syntax.OpCapture:
		if len(re.Sub) == 1 {
			return astIsLiteral(re.Sub[0])
		}
	}
	return "", false
}
