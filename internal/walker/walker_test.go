package walker

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/capsoftware/globlin/internal/pattern"
	"github.com/capsoftware/globlin/internal/planner"
)

func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dirs := []string{"src", "src/pkg", "src/pkg/sub", ".hidden"}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	files := map[string]string{
		"src/main.go":         "package main",
		"src/pkg/lib.go":      "package pkg",
		"src/pkg/README.md":   "docs",
		"src/pkg/sub/deep.go": "package sub",
		".hidden/secret.go":   "package hidden",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func collect(t *testing.T, raw, root string, dot bool) []string {
	t.Helper()
	ps, err := pattern.CompileAll([]string{raw}, pattern.CompileOptions{})
	if err != nil {
		t.Fatalf("CompileAll(%q): %v", raw, err)
	}
	plan := planner.Plan(ps, "")

	var paths []string
	for _, b := range plan.Bases {
		err := Walk(context.Background(), b, root, Options{Dot: dot, SkipVCS: true}, func(c Candidate) {
			rel := filepath.Join(append([]string{b.Dir}, c.RelParts...)...)
			paths = append(paths, rel)
		})
		if err != nil {
			t.Fatalf("Walk(%q): %v", raw, err)
		}
	}
	sort.Strings(paths)
	return paths
}

func TestWalkRecursiveExtension(t *testing.T) {
	root := buildTree(t)
	got := collect(t, "src/**/*.go", root, false)
	want := []string{
		filepath.Join("src", "main.go"),
		filepath.Join("src", "pkg", "lib.go"),
		filepath.Join("src", "pkg", "sub", "deep.go"),
	}
	sort.Strings(want)
	if !equalStrings(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWalkSingleSegmentWildcard(t *testing.T) {
	root := buildTree(t)
	got := collect(t, "src/pkg/*.go", root, false)
	want := []string{filepath.Join("src", "pkg", "lib.go")}
	if !equalStrings(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWalkExcludesHiddenByDefault(t *testing.T) {
	root := buildTree(t)
	got := collect(t, "**/*.go", root, false)
	for _, p := range got {
		if filepath.Base(filepath.Dir(p)) == ".hidden" {
			t.Errorf("expected .hidden/secret.go to be excluded by default, got %v", got)
		}
	}
}

func TestWalkIncludesHiddenWithDotOption(t *testing.T) {
	root := buildTree(t)
	got := collect(t, "**/*.go", root, true)
	found := false
	for _, p := range got {
		if filepath.Base(p) == "secret.go" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected .hidden/secret.go to be included with dot option, got %v", got)
	}
}

func TestWalkParallelMatchesSerial(t *testing.T) {
	root := buildTree(t)
	ps, err := pattern.CompileAll([]string{"src/**/*.go"}, pattern.CompileOptions{})
	if err != nil {
		t.Fatal(err)
	}
	plan := planner.Plan(ps, "")

	var serial, parallel []string
	for _, b := range plan.Bases {
		Walk(context.Background(), b, root, Options{SkipVCS: true}, func(c Candidate) {
			serial = append(serial, filepath.Join(c.RelParts...))
		})
		Walk(context.Background(), b, root, Options{SkipVCS: true, Parallel: true}, func(c Candidate) {
			parallel = append(parallel, filepath.Join(c.RelParts...))
		})
	}
	sort.Strings(serial)
	sort.Strings(parallel)
	if !equalStrings(serial, parallel) {
		t.Errorf("serial %v != parallel %v", serial, parallel)
	}
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
