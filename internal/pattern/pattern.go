package pattern

import (
	"os"
	"strings"

	"github.com/capsoftware/globlin/internal/globerr"
)

// CompileOptions carries the subset of the public Options (spec §3) that
// affects pattern compilation. The caller (package glob) maps its Options
// into this struct so this package never needs to import the public API.
type CompileOptions struct {
	Dot                  bool
	NoBrace              bool
	NoGlobstar           bool
	NoExt                bool
	NoCase               bool
	WindowsPathsNoEscape bool
	MagicalBraces        bool

	// MatchBase makes a pattern containing no '/' match against the
	// basename at any depth, per spec §3's matchBase option: "src.go"
	// behaves like "**/src.go".
	MatchBase bool
}

// Pattern is a compiled glob pattern: an ordered, non-empty Segment
// sequence plus enough metadata for the Traversal Planner to derive a base
// directory and for the Result Projector to special-case "." (spec §4.4).
type Pattern struct {
	Segments []*Segment
	Raw      string // the expanded pattern string this Pattern was built from
	Absolute bool   // pattern began with a path separator
	DotOnly  bool   // pattern was exactly "." or "./"
	HasBrace bool   // raw pattern contained a brace character and NoBrace was off
}

// Close releases any PCRE resources held by this pattern's segments. Safe
// to call on a Pattern that holds none.
func (p *Pattern) Close() {
	for _, s := range p.Segments {
		releaseSegment(s)
	}
}

func releaseSegment(s *Segment) {
	if c, ok := s.Regex.(closer); ok {
		c.Close()
	}
	if s.Fast != nil {
		if c, ok := s.Fast.Fallback.(closer); ok {
			c.Close()
		}
	}
}

// CompileAll implements spec §4.1's compile(raw_patterns, options) contract:
// the result's length is >= len(rawPatterns) whenever brace expansion
// multiplies any of them.
func CompileAll(rawPatterns []string, opts CompileOptions) ([]*Pattern, error) {
	var out []*Pattern
	for _, raw := range rawPatterns {
		compiled, err := compileOne(raw, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, compiled...)
	}
	return out, nil
}

func compileOne(raw string, opts CompileOptions) ([]*Pattern, error) {
	normalized, absolute := normalize(raw, opts)

	if normalized == "." || normalized == "" {
		return []*Pattern{{
			Segments: []*Segment{{Kind: KindLiteral, Literal: "."}},
			Raw:      normalized,
			Absolute: absolute,
			DotOnly:  true,
		}}, nil
	}

	hasBrace := strings.ContainsAny(normalized, "{}")

	var expanded []string
	if opts.NoBrace {
		expanded = []string{normalized}
	} else {
		var err error
		expanded, err = expandBraces(normalized)
		if err != nil {
			return nil, &globerr.InvalidPattern{Pattern: raw, Reason: err.Error()}
		}
	}

	out := make([]*Pattern, 0, len(expanded))
	for _, exp := range expanded {
		segs, err := splitAndClassify(exp, opts)
		if err != nil {
			return nil, &globerr.InvalidPattern{Pattern: raw, Reason: err.Error()}
		}
		if opts.MatchBase && !absolute && !strings.Contains(exp, "/") && len(segs) == 1 && !segs[0].IsRecursive() {
			segs = append([]*Segment{{Kind: KindWildcard, WildcardKind: RecursiveGlobstar}}, segs...)
		}
		out = append(out, &Pattern{
			Segments: segs,
			Raw:      exp,
			Absolute: absolute,
			HasBrace: hasBrace && !opts.NoBrace,
		})
	}
	return out, nil
}

// splitAndClassify splits on unescaped '/', classifies each segment, then
// applies the two compile-time collapsing rules from spec §3/§4.1: adjacent
// globstars collapse to one, and (as an optimization named in the Pattern
// Compiler grounding notes) a globstar immediately followed by an
// ExtensionOnly/ExtensionSet fast path collapses into a single Recursive
// fast-path segment.
func splitAndClassify(exp string, opts CompileOptions) ([]*Segment, error) {
	parts := splitUnescaped(exp, opts.WindowsPathsNoEscape)

	cOpts := ClassifyOptions{NoCase: opts.NoCase, NoExt: opts.NoExt, NoEscape: opts.WindowsPathsNoEscape}

	var raw []*Segment
	for _, part := range parts {
		if part == "" {
			continue
		}
		p := part
		if opts.NoGlobstar && p == "**" {
			p = "*"
		}
		seg, err := classifySegment(p, cOpts)
		if err != nil {
			return nil, err
		}
		raw = append(raw, seg)
	}
	if len(raw) == 0 {
		raw = []*Segment{{Kind: KindLiteral, Literal: "."}}
	}

	collapsed := collapseGlobstars(raw)
	collapsed = collapseRecursiveFastPath(collapsed)
	return collapsed, nil
}

func collapseGlobstars(segs []*Segment) []*Segment {
	out := make([]*Segment, 0, len(segs))
	for _, s := range segs {
		if s.Kind == KindWildcard && s.WildcardKind == RecursiveGlobstar &&
			len(out) > 0 {
			prev := out[len(out)-1]
			if prev.Kind == KindWildcard && prev.WildcardKind == RecursiveGlobstar {
				continue // collapse consecutive globstars
			}
		}
		out = append(out, s)
	}
	return out
}

// collapseRecursiveFastPath merges a trailing "**", <fast-path> pair into
// one Recursive* fast-path segment, so the walker can recognize "any depth,
// then a file with this extension" without ever materializing the
// intermediate globstar segment.
func collapseRecursiveFastPath(segs []*Segment) []*Segment {
	for i := 0; i+1 < len(segs); i++ {
		g := segs[i]
		f := segs[i+1]
		if !(g.Kind == KindWildcard && g.WildcardKind == RecursiveGlobstar) {
			continue
		}
		if f.Kind != KindFastPath {
			continue
		}
		var merged *Segment
		switch f.Fast.Variant {
		case ExtensionOnly:
			merged = &Segment{
				Kind: KindFastPath,
				Fast: &FastPath{Variant: RecursiveExtension, Ext: f.Fast.Ext, Fallback: f.Fast.Fallback},
			}
		case ExtensionSet:
			merged = &Segment{
				Kind: KindFastPath,
				Fast: &FastPath{Variant: RecursiveExtensionSet, ExtSet: f.Fast.ExtSet, Fallback: f.Fast.Fallback},
			}
		default:
			continue
		}
		out := make([]*Segment, 0, len(segs)-1)
		out = append(out, segs[:i]...)
		out = append(out, merged)
		out = append(out, segs[i+2:]...)
		return collapseRecursiveFastPath(out)
	}
	return segs
}

// splitUnescaped splits s on '/' (and, when winSep is true, also on '\\')
// without splitting on an escaped separator.
func splitUnescaped(s string, winSep bool) []string {
	var parts []string
	var cur strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && !winSep && i+1 < len(s) {
			cur.WriteByte(c)
			cur.WriteByte(s[i+1])
			i++
			continue
		}
		if c == '/' || (winSep && c == '\\') {
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	parts = append(parts, cur.String())
	return parts
}

// normalize implements spec §4.1 step 1: strip a leading "./", collapse
// repeated separators, and expand a leading "~". Backslashes are left in
// place; splitUnescaped later treats them as escapes, or as separators when
// windowsPathsNoEscape is set.
func normalize(raw string, opts CompileOptions) (normalized string, absolute bool) {
	s := raw

	if strings.HasPrefix(s, "~") && (len(s) == 1 || s[1] == '/') {
		if home, err := os.UserHomeDir(); err == nil {
			s = home + s[1:]
		}
	}

	if !opts.WindowsPathsNoEscape {
		// '\' is an escape character, not a separator; leave as-is here —
		// splitUnescaped handles escaping per-segment.
	}

	for strings.HasPrefix(s, "./") {
		s = s[2:]
	}
	if s == "." {
		return ".", false
	}

	absolute = strings.HasPrefix(s, "/")

	// Collapse repeated '/'.
	for strings.Contains(s, "//") {
		s = strings.ReplaceAll(s, "//", "/")
	}

	return s, absolute
}
