package pattern

import (
	"testing"

	"github.com/bmatcuk/doublestar/v4"
)

func compileOne1(t *testing.T, raw string, opts CompileOptions) *Pattern {
	t.Helper()
	ps, err := CompileAll([]string{raw}, opts)
	if err != nil {
		t.Fatalf("CompileAll(%q): %v", raw, err)
	}
	if len(ps) != 1 {
		t.Fatalf("CompileAll(%q): want 1 pattern, got %d", raw, len(ps))
	}
	return ps[0]
}

func matchSegments(p *Pattern, parts []string, dot bool) bool {
	if len(p.Segments) != len(parts) {
		return false
	}
	for i, part := range parts {
		if !p.Segments[i].Matches(part, dot) {
			return false
		}
	}
	return true
}

func TestClassifyLiteral(t *testing.T) {
	p := compileOne1(t, "foo/bar.txt", CompileOptions{})
	if len(p.Segments) != 2 {
		t.Fatalf("want 2 segments, got %d", len(p.Segments))
	}
	if p.Segments[0].Kind != KindLiteral || p.Segments[0].Literal != "foo" {
		t.Errorf("segment 0 = %+v, want literal foo", p.Segments[0])
	}
	if p.Segments[1].Kind != KindLiteral || p.Segments[1].Literal != "bar.txt" {
		t.Errorf("segment 1 = %+v, want literal bar.txt", p.Segments[1])
	}
}

func TestClassifyExtensionOnly(t *testing.T) {
	p := compileOne1(t, "*.go", CompileOptions{})
	seg := p.Segments[0]
	if seg.Kind != KindFastPath || seg.Fast.Variant != ExtensionOnly || seg.Fast.Ext != ".go" {
		t.Fatalf("segment = %+v, want ExtensionOnly(.go)", seg)
	}
	if !seg.Matches("main.go", false) {
		t.Error("expected main.go to match *.go")
	}
	if seg.Matches(".hidden.go", false) {
		t.Error("expected .hidden.go not to match *.go without dot option")
	}
	if !seg.Matches(".hidden.go", true) {
		t.Error("expected .hidden.go to match *.go with dot option")
	}
}

func TestClassifyExtensionSet(t *testing.T) {
	p := compileOne1(t, "*.@(js|ts|tsx)", CompileOptions{})
	seg := p.Segments[0]
	if seg.Kind != KindFastPath || seg.Fast.Variant != ExtensionSet {
		t.Fatalf("segment = %+v, want ExtensionSet", seg)
	}
	for _, name := range []string{"a.js", "a.ts", "a.tsx"} {
		if !seg.Matches(name, false) {
			t.Errorf("expected %s to match *.@(js|ts|tsx)", name)
		}
	}
	if seg.Matches("a.jsx", false) {
		t.Error("a.jsx should not match *.@(js|ts|tsx)")
	}
}

func TestClassifyLiteralNameFromExtglob(t *testing.T) {
	p := compileOne1(t, "@(foo)", CompileOptions{})
	seg := p.Segments[0]
	if seg.Kind != KindFastPath || seg.Fast.Variant != LiteralName || seg.Fast.Name != "foo" {
		t.Fatalf("segment = %+v, want LiteralName(foo)", seg)
	}
}

func TestGlobstarCollapse(t *testing.T) {
	p := compileOne1(t, "a/**/**/b", CompileOptions{})
	if len(p.Segments) != 3 {
		t.Fatalf("want 3 segments after globstar collapse, got %d: %+v", len(p.Segments), p.Segments)
	}
	if !p.Segments[1].IsRecursive() {
		t.Errorf("segment 1 should be recursive, got %+v", p.Segments[1])
	}
}

func TestRecursiveFastPathCollapse(t *testing.T) {
	p := compileOne1(t, "src/**/*.go", CompileOptions{})
	if len(p.Segments) != 2 {
		t.Fatalf("want 2 segments after recursive fast-path collapse, got %d: %+v", len(p.Segments), p.Segments)
	}
	seg := p.Segments[1]
	if seg.Kind != KindFastPath || seg.Fast.Variant != RecursiveExtension || seg.Fast.Ext != ".go" {
		t.Fatalf("segment 1 = %+v, want RecursiveExtension(.go)", seg)
	}
}

func TestBraceExpansion(t *testing.T) {
	ps, err := CompileAll([]string{"file.{js,ts}"}, CompileOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != 2 {
		t.Fatalf("want 2 expansions, got %d", len(ps))
	}
	got := map[string]bool{}
	for _, p := range ps {
		got[p.Raw] = true
	}
	if !got["file.js"] || !got["file.ts"] {
		t.Errorf("got = %v, want file.js and file.ts", got)
	}
}

func TestBraceNumericRange(t *testing.T) {
	ps, err := CompileAll([]string{"part{01..03}.bin"}, CompileOptions{})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"part01.bin", "part02.bin", "part03.bin"}
	if len(ps) != len(want) {
		t.Fatalf("want %d expansions, got %d", len(want), len(ps))
	}
	for i, w := range want {
		if ps[i].Raw != w {
			t.Errorf("ps[%d].Raw = %q, want %q", i, ps[i].Raw, w)
		}
	}
}

func TestBraceAlphaRange(t *testing.T) {
	ps, err := CompileAll([]string{"{a..c}.txt"}, CompileOptions{})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.txt", "b.txt", "c.txt"}
	if len(ps) != len(want) {
		t.Fatalf("want %d expansions, got %d", len(want), len(ps))
	}
}

func TestNoBraceLeavesLiteral(t *testing.T) {
	p := compileOne1(t, "file.{js,ts}", CompileOptions{NoBrace: true})
	if p.Raw != "file.{js,ts}" {
		t.Errorf("Raw = %q, want literal brace text preserved", p.Raw)
	}
}

func TestNegativeExtglobUsesPCRE(t *testing.T) {
	p := compileOne1(t, "!(*.go)", CompileOptions{})
	seg := p.Segments[0]
	if seg.Kind != KindWildcard {
		t.Fatalf("segment = %+v, want KindWildcard (PCRE fallback)", seg)
	}
	if seg.Matches("main.go", false) {
		t.Error("main.go should not match !(*.go)")
	}
	if !seg.Matches("main.py", false) {
		t.Error("main.py should match !(*.go)")
	}
}

func TestBracketClassNegation(t *testing.T) {
	p := compileOne1(t, "[!abc]*.txt", CompileOptions{})
	seg := p.Segments[0]
	if seg.Matches("afile.txt", false) {
		t.Error("afile.txt should not match [!abc]*.txt")
	}
	if !seg.Matches("dfile.txt", false) {
		t.Error("dfile.txt should match [!abc]*.txt")
	}
}

func TestPosixClass(t *testing.T) {
	p := compileOne1(t, "[[:digit:]]*.txt", CompileOptions{})
	seg := p.Segments[0]
	if !seg.Matches("1file.txt", false) {
		t.Error("1file.txt should match [[:digit:]]*.txt")
	}
	if seg.Matches("afile.txt", false) {
		t.Error("afile.txt should not match [[:digit:]]*.txt")
	}
}

func TestDotPattern(t *testing.T) {
	p := compileOne1(t, ".", CompileOptions{})
	if !p.DotOnly {
		t.Errorf("DotOnly = false, want true for %q", p.Raw)
	}
}

func TestHasMagic(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"plain/path.txt", false},
		{"*.go", true},
		{"a[bc]d", true},
		{"a{b,c}d", true},
		{"a\\*b", false},
	}
	for _, c := range cases {
		if got := HasMagic(c.raw, false, false, false); got != c.want {
			t.Errorf("HasMagic(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}

func TestEscapeUnescapeRoundTrip(t *testing.T) {
	raw := "weird [file]*name?.txt"
	escaped := Escape(raw)
	if HasMagic(escaped, false, false, false) {
		t.Errorf("Escape(%q) = %q still reports magic", raw, escaped)
	}
	if got := Unescape(escaped); got != raw {
		t.Errorf("Unescape(Escape(%q)) = %q, want %q", raw, got, raw)
	}
}

func TestEscapeLeavesBracesUnescaped(t *testing.T) {
	got := Escape("a{b,c}")
	if got != "a{b,c}" {
		t.Errorf("Escape(%q) = %q, want braces left untouched", "a{b,c}", got)
	}
}

// TestFastPathAgreesWithOracle cross-checks a handful of fast-path
// extension patterns against doublestar.Match, used strictly as a set-
// equality oracle in tests and never imported by runtime code. doublestar
// has no extglobs and lets "*" match a leading dot, so each pattern is
// paired with its doublestar spelling and matched with dot enabled.
func TestFastPathAgreesWithOracle(t *testing.T) {
	names := []string{"main.go", "main.js", "main.ts", "README.md", ".hidden.go"}
	patterns := map[string]string{"*.go": "*.go", "*.md": "*.md", "*.@(js|ts)": "*.{js,ts}"}
	for pat, oracle := range patterns {
		p := compileOne1(t, pat, CompileOptions{})
		seg := p.Segments[0]
		for _, name := range names {
			want, err := doublestar.Match(oracle, name)
			if err != nil {
				t.Fatalf("doublestar.Match(%q, %q): %v", oracle, name, err)
			}
			got := seg.Matches(name, true)
			if got != want {
				t.Errorf("pattern %q name %q: got %v, oracle %v", pat, name, got, want)
			}
		}
	}
}

func TestCacheEvictsOldestEntry(t *testing.T) {
	c := NewCache(1)
	opts := CompileOptions{}
	first, err := CompileCached(c, []string{"!(*.go)"}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 {
		t.Fatalf("want 1 compiled pattern, got %d", len(first))
	}
	// Evict it by compiling a second, distinct pattern into the size-1 cache.
	if _, err := CompileCached(c, []string{"!(*.py)"}, opts); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get([]string{"!(*.go)"}, opts); ok {
		t.Error("expected first entry to be evicted from a size-1 cache")
	}
}

func TestMultiSegmentMatch(t *testing.T) {
	p := compileOne1(t, "src/*/main.go", CompileOptions{})
	if !matchSegments(p, []string{"src", "pkg", "main.go"}, false) {
		t.Error("expected src/*/main.go to match src/pkg/main.go")
	}
	if matchSegments(p, []string{"src", "pkg", "other.go"}, false) {
		t.Error("did not expect src/*/main.go to match src/pkg/other.go")
	}
}
