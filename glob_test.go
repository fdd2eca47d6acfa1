package globlin

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// writeTree creates dirs and files under a fresh t.TempDir(), returning the
// root. dirs and files are slash-separated paths relative to the root;
// files' contents don't matter to any of these tests.
func writeTree(t *testing.T, dirs, files []string) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		full := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func sorted(ss []string) []string {
	out := append([]string(nil), ss...)
	sort.Strings(out)
	return out
}

func boolPtr(b bool) *bool { return &b }

// Scenario 1 (spec §8): fixture {a/b/c/d, a/b/e, x/y}; pattern "a/**/c",
// no options -> {a/b/c}.
func TestGlobRecursiveMiddleSegment(t *testing.T) {
	root := writeTree(t, []string{"a/b/c"}, []string{"a/b/c/d", "a/b/e", "x/y"})

	got, err := Glob([]string{"a/**/c"}, Options{Cwd: root})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"a/b/c"}; !equalStrings(sorted(got), want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// Scenario 2 (spec §8): same fixture, patterns [a/**, x/**] with
// includeChildMatches=false -> {a, x}. Exercises the zero-component match
// of a base directory against a pattern whose remaining segments are
// entirely recursive, and the global includeChildMatches pruning.
func TestGlobIncludeChildMatchesFalse(t *testing.T) {
	root := writeTree(t, []string{"a/b/c"}, []string{"a/b/c/d", "a/b/e", "x/y"})

	got, err := Glob([]string{"a/**", "x/**"}, Options{
		Cwd:                 root,
		IncludeChildMatches: boolPtr(false),
	})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"a", "x"}; !equalStrings(sorted(got), want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// Scenario 3 (spec §8): fixture {.hidden, visible.txt} at root; pattern "*"
// with dot=false -> {visible.txt}; with dot=true -> {.hidden, visible.txt}.
func TestGlobDotOption(t *testing.T) {
	root := writeTree(t, nil, []string{".hidden", "visible.txt"})

	got, err := Glob([]string{"*"}, Options{Cwd: root})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"visible.txt"}; !equalStrings(sorted(got), want) {
		t.Errorf("dot=false: got %v, want %v", got, want)
	}

	got, err = Glob([]string{"*"}, Options{Cwd: root, Dot: true})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{".hidden", "visible.txt"}; !equalStrings(sorted(got), want) {
		t.Errorf("dot=true: got %v, want %v", got, want)
	}
}

// Scenario 4 (spec §8): pattern "./a/b/**", dotRelative=true; every
// emitted path begins with "./".
func TestGlobDotRelative(t *testing.T) {
	root := writeTree(t, []string{"a/b/c"}, []string{"a/b/one.txt", "a/b/c/two.txt"})

	got, err := Glob([]string{"./a/b/**"}, Options{Cwd: root, DotRelative: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 {
		t.Fatal("expected at least one match")
	}
	for _, p := range got {
		if p[:2] != "./" {
			t.Errorf("path %q does not begin with \"./\"", p)
		}
	}
}

// Scenario 5 (spec §8): pattern ".", no options -> {.}; with mark=true ->
// {./}.
func TestGlobDotPattern(t *testing.T) {
	root := writeTree(t, []string{"sub"}, nil)

	got, err := Glob([]string{"."}, Options{Cwd: root})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"."}; !equalStrings(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	got, err = Glob([]string{"."}, Options{Cwd: root, Mark: true})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"./"}; !equalStrings(got, want) {
		t.Errorf("mark=true: got %v, want %v", got, want)
	}
}

// Scenario 6 (spec §8): a directory made unreadable must not affect any
// other emitted ".txt" match — the denied subtree's contents are simply
// absent from the output. Skipped when running as root, since root bypasses
// directory permission bits and the scenario can't be reproduced.
func TestGlobPermissionResilience(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits don't apply to root")
	}
	root := writeTree(t, []string{"d"}, []string{"d/f.txt", "keep.txt", "other/g.txt"})

	denied := filepath.Join(root, "d")
	if err := os.Chmod(denied, 0o000); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(denied, 0o755)

	got, err := Glob([]string{"**/*.txt"}, Options{Cwd: root})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range got {
		if p == "d/f.txt" {
			t.Errorf("d/f.txt should have been excluded by the unreadable directory")
		}
	}
	want := []string{"keep.txt", "other/g.txt"}
	if !equalStrings(sorted(got), want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// Idempotence (spec §8): running the same query twice yields equal result
// sets.
func TestGlobIdempotence(t *testing.T) {
	root := writeTree(t, []string{"src/pkg"}, []string{"src/pkg/a.go", "src/pkg/b.go", "src/readme.md"})

	opts := Options{Cwd: root}
	first, err := Glob([]string{"src/**/*.go"}, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Glob([]string{"src/**/*.go"}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !equalStrings(sorted(first), sorted(second)) {
		t.Errorf("non-idempotent: %v vs %v", first, second)
	}
}

// Multi-base equivalence (spec §8): results of [P1, ..., Pn] equal the
// union of results of each Pi run individually.
func TestGlobMultiBaseEquivalence(t *testing.T) {
	root := writeTree(t, []string{"a", "b/c"}, []string{"a/one.go", "b/c/two.go", "b/three.txt"})

	combined, err := Glob([]string{"a/*.go", "b/**/*.go"}, Options{Cwd: root})
	if err != nil {
		t.Fatal(err)
	}

	var union []string
	for _, p := range []string{"a/*.go", "b/**/*.go"} {
		r, err := Glob([]string{p}, Options{Cwd: root})
		if err != nil {
			t.Fatal(err)
		}
		union = append(union, r...)
	}

	if !equalStrings(sorted(combined), sorted(dedup(union))) {
		t.Errorf("multi-base result %v != union of individual results %v", sorted(combined), sorted(dedup(union)))
	}
}

func dedup(ss []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// escape/unescape round-trip (spec §8): for every string s,
// unescape(escape(s, f), f) == s.
func TestEscapeUnescapeRoundTrip(t *testing.T) {
	cases := []string{
		"plain",
		"a*b?c",
		"[abc]",
		"has space",
		"back\\slash",
		"multi**glob",
		"paren(s)",
		"{brace}",
		"",
	}
	for _, s := range cases {
		got := Unescape(Escape(s))
		if got != s {
			t.Errorf("Unescape(Escape(%q)) = %q, want %q", s, got, s)
		}
	}
}

// has_magic post-escape (spec §8): for every s, has_magic(escape(s)) ==
// false.
func TestHasMagicAfterEscape(t *testing.T) {
	cases := []string{"*.go", "a?b", "[xyz]", "@(a|b)", "normal"}
	for _, s := range cases {
		escaped := Escape(s)
		if HasMagic(escaped, Options{}) {
			t.Errorf("HasMagic(Escape(%q)) = true, want false (escaped = %q)", s, escaped)
		}
	}
}
