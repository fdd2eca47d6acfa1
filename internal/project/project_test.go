package project

import "testing"

func TestAssembleBasic(t *testing.T) {
	got := Assemble("src", []string{"pkg", "main.go"}, false, Options{})
	if got != "src/pkg/main.go" {
		t.Errorf("got %q, want src/pkg/main.go", got)
	}
}

func TestAssembleMark(t *testing.T) {
	got := Assemble("src", []string{"pkg"}, true, Options{Mark: true})
	if got != "src/pkg/" {
		t.Errorf("got %q, want src/pkg/", got)
	}
}

func TestAssembleDotRelative(t *testing.T) {
	got := Assemble("", []string{"main.go"}, false, Options{DotRelative: true})
	if got != "./main.go" {
		t.Errorf("got %q, want ./main.go", got)
	}
}

func TestAssembleDotPatternSpecialCase(t *testing.T) {
	got := Assemble("", nil, true, Options{})
	if got != "." {
		t.Errorf("got %q, want .", got)
	}
	got = Assemble("", nil, true, Options{DotRelative: true, Mark: true})
	if got != "./" {
		t.Errorf("got %q, want ./", got)
	}
}

func TestProjectorDedup(t *testing.T) {
	p := New(Options{})
	c := Candidate{Root: "src", RelParts: []string{"main.go"}}
	if !p.Add(c) {
		t.Error("expected first Add to succeed")
	}
	if p.Add(c) {
		t.Error("expected duplicate Add to be filtered")
	}
	if len(p.Results()) != 1 {
		t.Errorf("Results() = %d entries, want 1", len(p.Results()))
	}
}

func TestProjectorNoDir(t *testing.T) {
	p := New(Options{NoDir: true})
	if p.Add(Candidate{Root: "src", RelParts: []string{"pkg"}, IsDir: true}) {
		t.Error("expected NoDir to filter out a directory candidate")
	}
	if len(p.Results()) != 0 {
		t.Errorf("Results() = %d entries, want 0", len(p.Results()))
	}
}
