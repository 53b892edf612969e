package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/pkgen-dev/pkgen/internal/flavor"
	"github.com/pkgen-dev/pkgen/internal/project"
)

func newPrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return New(strings.NewReader(input), &out), &out
}

func TestAuthor(t *testing.T) {
	tests := []struct {
		name, email, want string
	}{
		{"Ada Lovelace", "ada@example.com", "Ada Lovelace <ada@example.com>"},
		{"Ada Lovelace", "", "Ada Lovelace"},
		{"", "ada@example.com", "<ada@example.com>"},
		{"", "", ""},
		{"  Ada ", " ada@example.com ", "Ada <ada@example.com>"},
	}
	for _, tt := range tests {
		if got := Author(tt.name, tt.email); got != tt.want {
			t.Errorf("Author(%q, %q) = %q, want %q", tt.name, tt.email, got, tt.want)
		}
	}
}

func TestAskDefault(t *testing.T) {
	p, out := newPrompter("\nISC\n")

	got, err := p.Ask("License (MIT): ", "MIT")
	if err != nil || got != "MIT" {
		t.Errorf("blank answer = %q, %v; want MIT", got, err)
	}
	got, err = p.Ask("License (MIT): ", "MIT")
	if err != nil || got != "ISC" {
		t.Errorf("answer = %q, %v; want ISC", got, err)
	}
	if strings.Count(out.String(), "License (MIT): ") != 2 {
		t.Errorf("questions not printed: %q", out.String())
	}

	// Input exhausted.
	got, err = p.Ask("Description: ", "")
	if err != nil || got != "" {
		t.Errorf("EOF answer = %q, %v", got, err)
	}
}

func TestAskLastLineWithoutNewline(t *testing.T) {
	p, _ := newPrompter("demo")
	got, err := p.Ask("Name: ", "")
	if err != nil || got != "demo" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestYesNoReasksUntilValid(t *testing.T) {
	p, out := newPrompter("maybe\n\nYES\n")

	got, err := p.YesNo("Private? ")
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Error("YES should be true")
	}
	if n := strings.Count(out.String(), "Private? [y/n]: "); n != 3 {
		t.Errorf("asked %d times, want 3", n)
	}
}

func TestYesNoNo(t *testing.T) {
	p, _ := newPrompter("n\n")
	got, err := p.YesNo("Private? ")
	if err != nil || got {
		t.Errorf("got %v, %v; want false", got, err)
	}
}

func TestYesNoEOF(t *testing.T) {
	p, _ := newPrompter("perhaps")
	if _, err := p.YesNo("Private? "); err == nil {
		t.Error("expected error when input ends without an answer")
	}
}

func TestResolveInteractiveLibrary(t *testing.T) {
	p, _ := newPrompter("demo\nA demo package\n\nAda\nada@example.com\nx\nn\n")

	opts, err := Resolve(Input{Flavor: flavor.Library}, p)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if opts.PackageName != "demo" {
		t.Errorf("PackageName = %q", opts.PackageName)
	}
	if opts.Description != "A demo package" {
		t.Errorf("Description = %q", opts.Description)
	}
	if opts.License != "MIT" {
		t.Errorf("blank license = %q, want MIT", opts.License)
	}
	if opts.Author != "Ada <ada@example.com>" {
		t.Errorf("Author = %q", opts.Author)
	}
	if opts.Private == nil || *opts.Private {
		t.Errorf("Private = %v, want false", opts.Private)
	}
}

func TestResolveCustomLicensePassesThrough(t *testing.T) {
	p, _ := newPrompter("\nApache-2.0\n\n\ny\n")

	opts, err := Resolve(Input{PackageName: "demo", Flavor: flavor.Library}, p)
	if err != nil {
		t.Fatal(err)
	}
	if opts.License != "Apache-2.0" {
		t.Errorf("License = %q", opts.License)
	}
	if opts.Author != "" {
		t.Errorf("Author = %q, want empty", opts.Author)
	}
	if opts.Private == nil || !*opts.Private {
		t.Error("Private should be true")
	}
}

func TestResolveSkipsAnsweredQuestions(t *testing.T) {
	private := true
	p, out := newPrompter("")

	opts, err := Resolve(Input{
		PackageName: "demo",
		Flavor:      flavor.Library,
		Description: "d",
		License:     "ISC",
		AuthorName:  "Ada",
		AuthorEmail: "ada@example.com",
		Private:     &private,
	}, p)
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be asked, got %q", out.String())
	}
	if opts.License != "ISC" || opts.Author != "Ada <ada@example.com>" || !*opts.Private {
		t.Errorf("opts = %+v", opts)
	}
}

func TestResolveNonInteractiveDefaults(t *testing.T) {
	opts, err := Resolve(Input{PackageName: "demo", AuthorName: "Ada", DefaultLicense: "ISC"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Flavor != flavor.Library {
		t.Error("flavor should default to library")
	}
	if opts.License != "ISC" {
		t.Errorf("License = %q, want configured default", opts.License)
	}
	if opts.Author != "Ada" {
		t.Errorf("Author = %q", opts.Author)
	}
	if opts.Private == nil || *opts.Private {
		t.Error("Private should default to false")
	}
}

func TestResolveServerNeverPrompts(t *testing.T) {
	p, out := newPrompter("")

	opts, err := Resolve(Input{PackageName: "api", Flavor: flavor.Server, Description: "ignored"}, p)
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("server flavor asked %q", out.String())
	}
	if opts.Private == nil || !*opts.Private {
		t.Error("server must be private")
	}
	if opts.Description != "" || opts.License != "" {
		t.Errorf("server carries no metadata: %+v", opts)
	}
}

func TestResolveMissingName(t *testing.T) {
	p, _ := newPrompter("\n")
	if _, err := Resolve(Input{}, p); !errors.Is(err, project.ErrMissingPackageName) {
		t.Errorf("err = %v, want ErrMissingPackageName", err)
	}
	if _, err := Resolve(Input{PackageName: "  "}, nil); !errors.Is(err, project.ErrMissingPackageName) {
		t.Errorf("err = %v, want ErrMissingPackageName", err)
	}
}
