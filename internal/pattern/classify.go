package pattern

import (
	"regexp"
	"regexp/syntax"
	"strings"
)

// ClassifyOptions carries the subset of query options that affect how a
// single path segment is classified and translated.
type ClassifyOptions struct {
	NoCase   bool
	NoExt    bool
	NoEscape bool // windowsPathsNoEscape: backslash is a separator, not an escape
}

// classifySegment implements spec §4.1 step 4: literal, then globstar, then
// fast-path, then general regex, in that order. raw is one path component,
// already split on unescaped '/'.
func classifySegment(raw string, opts ClassifyOptions) (*Segment, error) {
	seg := &Segment{raw: raw, ExplicitDot: startsWithLiteralDot(raw)}

	if raw == "**" {
		seg.Kind = KindWildcard
		seg.WildcardKind = RecursiveGlobstar
		return seg, nil
	}

	tOpts := TranslateOptions{NoExt: opts.NoExt, Escape: !opts.NoEscape}

	if !hasMagicChars(raw, tOpts) {
		seg.Kind = KindLiteral
		seg.Literal = unescapeLiteral(raw, tOpts.Escape)
		return seg, nil
	}

	body, needsPCRE, err := translateSegment(raw, tOpts)
	if err != nil {
		return nil, err
	}

	if needsPCRE {
		re, err := compilePCRE(body, opts.NoCase)
		if err != nil {
			return nil, err
		}
		seg.Kind = KindWildcard
		seg.WildcardKind = SingleSegment
		seg.Regex = re
		return seg, nil
	}

	anchored := "^(?:" + body + ")$"
	flags := ""
	if opts.NoCase {
		flags = "(?i)"
	}
	re, err := regexp.Compile(flags + anchored)
	if err != nil {
		return nil, err
	}

	if fast := classifyFastPath(body, opts.NoCase, re); fast != nil {
		seg.Kind = KindFastPath
		seg.Fast = fast
		return seg, nil
	}

	seg.Kind = KindWildcard
	seg.WildcardKind = SingleSegment
	seg.Regex = re
	return seg, nil
}

// classifyFastPath inspects the regexp/syntax AST of the segment's own
// translated body (re-parsed outside the anchors, in Perl syntax — the same
// approach as the teacher's extractLiteral) to recognize the handful of
// shapes spec §3 names as fast paths. Returns nil if none apply; re is
// always kept by the caller as the Fallback for parity.
func classifyFastPath(body string, noCase bool, re *regexp.Regexp) *FastPath {
	flags := syntax.Perl
	if noCase {
		flags |= syntax.FoldCase
	}
	ast, err := syntax.Parse(body, flags)
	if err != nil {
		return nil
	}
	ast = ast.Simplify()

	if lit, ok := astIsLiteral(ast); ok {
		return &FastPath{Variant: LiteralName, Name: lit, Fallback: re}
	}

	if ext, ok := starDotLiteral(ast); ok {
		return &FastPath{Variant: ExtensionOnly, Ext: ext, Fallback: re}
	}

	if exts, ok := starDotAlternation(ast); ok {
		return &FastPath{
			Variant:  ExtensionSet,
			ExtSet:   newExtSetMatcher(exts, noCase),
			Fallback: re,
		}
	}

	return nil
}

// starDotLiteral recognizes `[^/]*` followed by a literal suffix beginning
// with '.', e.g. the translation of "*.go" — spec's ExtensionOnly(ext).
func starDotLiteral(re *syntax.Regexp) (string, bool) {
	subs, ok := concatStarThen(re)
	if !ok {
		return "", false
	}
	if len(subs) != 1 || subs[0].Op != syntax.OpLiteral {
		return "", false
	}
	ext := string(subs[0].Rune)
	if !strings.HasPrefix(ext, ".") {
		return "", false
	}
	return ext, true
}

// starDotAlternation recognizes `[^/]*` followed by a literal '.' and an
// alternation of bare literal extensions, e.g. "*.@(js|ts)" —
// ExtensionSet({ext1,...,extn}). regexp/syntax factors some alternations
// while parsing (a shared prefix, as in "ts|tsx", or single characters
// merged into a class, as in "c|h"); those no longer have only bare
// literals as alternatives and are not recognized here.
func starDotAlternation(re *syntax.Regexp) ([]string, bool) {
	subs, ok := concatStarThen(re)
	if !ok {
		return nil, false
	}
	// Expect: Literal(".") , Alternate[Literal, Literal, ...]
	if len(subs) != 2 {
		return nil, false
	}
	if subs[0].Op != syntax.OpLiteral || string(subs[0].Rune) != "." {
		return nil, false
	}
	if subs[1].Op != syntax.OpAlternate {
		return nil, false
	}
	var exts []string
	for _, alt := range subs[1].Sub {
		if alt.Op != syntax.OpLiteral {
			return nil, false
		}
		exts = append(exts, "."+string(alt.Rune))
	}
	if len(exts) < 2 {
		return nil, false
	}
	return exts, true
}

// concatStarThen checks that re is `Concat[Star([^/]), rest...]` and
// returns rest.
func concatStarThen(re *syntax.Regexp) ([]*syntax.Regexp, bool) {
	if re.Op != syntax.OpConcat || len(re.Sub) < 2 {
		return nil, false
	}
	first := re.Sub[0]
	if first.Op != syntax.OpStar {
		return nil, false
	}
	if len(first.Sub) != 1 || !isNotSlashClass(first.Sub[0]) {
		return nil, false
	}
	return re.Sub[1:], true
}

func isNotSlashClass(re *syntax.Regexp) bool {
	if re.Op != syntax.OpCharClass {
		return false
	}
	for i := 0; i+1 < len(re.Rune); i += 2 {
		if re.Rune[i] <= '/' && '/' <= re.Rune[i+1] {
			return false
		}
	}
	return true
}

// hasMagicChars mirrors translateSegment's dispatch but only asks whether
// any magic construct is present, without building a regex — the cheap
// check that decides the Literal fast exit in step 4.
func hasMagicChars(raw string, opts TranslateOptions) bool {
	i := 0
	for i < len(raw) {
		c := raw[i]
		switch {
		case c == '\\' && opts.Escape && i+1 < len(raw):
			i += 2
		case c == '*' || c == '?' || c == '[':
			return true
		case !opts.NoExt && isExtglobStart(raw, i):
			return true
		default:
			i++
		}
	}
	return false
}

func startsWithLiteralDot(raw string) bool {
	if strings.HasPrefix(raw, ".") {
		return true
	}
	if strings.HasPrefix(raw, `\.`) {
		return true
	}
	return false
}

func unescapeLiteral(raw string, escape bool) string {
	if !escape || !strings.ContainsRune(raw, '\\') {
		return raw
	}
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
			b.WriteByte(raw[i])
			continue
		}
		b.WriteByte(raw[i])
	}
	return b.String()
}
