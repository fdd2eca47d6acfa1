package output

import (
	"testing"

	"github.com/capsoftware/globlin/internal/project"
)

func TestTextFormatter_PlainPath(t *testing.T) {
	f := NewTextFormatter(NoStyles(), false)
	result := Result{Entry: project.Entry{Path: "src/main.go"}}

	got := string(f.Format(nil, result))
	want := "src/main.go\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTextFormatter_DirColor(t *testing.T) {
	f := NewTextFormatter(NewStyles(), true)
	result := Result{Entry: project.Entry{Path: "src/", Dir: true}}

	got := string(f.Format(nil, result))
	if got == "src/\n" {
		t.Errorf("expected colorized output to differ from plain, got %q", got)
	}
}

func TestTextFormatter_ErrSkipped(t *testing.T) {
	f := NewTextFormatter(NoStyles(), false)
	result := Result{Err: errTest}

	got := f.Format(nil, result)
	if got != nil {
		t.Errorf("got %q, want nil for error result", got)
	}
}

func TestTextFormatter_AppendsToBuf(t *testing.T) {
	f := NewTextFormatter(NoStyles(), false)
	buf := []byte("prefix:")
	result := Result{Entry: project.Entry{Path: "a.txt"}}

	got := string(f.Format(buf, result))
	want := "prefix:a.txt\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

var errTest = testError("boom")

type testError string

func (e testError) Error() string { return string(e) }
