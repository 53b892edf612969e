package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkgen-dev/pkgen/internal/flavor"
)

func boolPtr(b bool) *bool { return &b }

func TestBuildBaseFields(t *testing.T) {
	for _, f := range flavor.All() {
		t.Run(f.Name(), func(t *testing.T) {
			doc := Build(Options{}, "demo", f)
			if doc.Name != "demo" {
				t.Errorf("Name = %q, want demo", doc.Name)
			}
			if doc.Main != "./build/index.js" {
				t.Errorf("Main = %q", doc.Main)
			}
			for _, key := range []string{"build", "clean", "start", "start-ts", "lint"} {
				if _, ok := doc.Scripts[key]; !ok {
					t.Errorf("missing script %q", key)
				}
			}
		})
	}
}

func TestBuildLibrary(t *testing.T) {
	doc := Build(Options{
		Description: "A demo",
		License:     "ISC",
		Author:      "Ada <ada@example.com>",
		Private:     boolPtr(true),
	}, "demo", flavor.Library)

	if doc.Version != "0.0.1" {
		t.Errorf("Version = %q", doc.Version)
	}
	if doc.Private == nil || !*doc.Private {
		t.Error("Private should carry the option")
	}
	if doc.License != "ISC" {
		t.Errorf("License = %q, want ISC", doc.License)
	}
	if doc.Author != "Ada <ada@example.com>" {
		t.Errorf("Author = %q", doc.Author)
	}
	if doc.Typings != "./build/index.d.ts" {
		t.Errorf("Typings = %q", doc.Typings)
	}
	if doc.Scripts["prebuild"] != "yarn run lint && yarn test && yarn run clean" {
		t.Errorf("prebuild = %q", doc.Scripts["prebuild"])
	}
	if doc.Scripts["prepublishOnly"] != "yarn build" {
		t.Errorf("prepublishOnly = %q", doc.Scripts["prepublishOnly"])
	}
	if len(doc.PreCommit) != 1 || doc.PreCommit[0] != "prepublishOnly" {
		t.Errorf("PreCommit = %v", doc.PreCommit)
	}
}

func TestBuildLibraryDefaults(t *testing.T) {
	doc := Build(Options{}, "demo", flavor.Library)

	if doc.License != DefaultLicense {
		t.Errorf("License = %q, want %q", doc.License, DefaultLicense)
	}
	if doc.Private == nil || *doc.Private {
		t.Error("Private should be explicitly false")
	}
	if doc.Author != "" {
		t.Errorf("Author = %q, want empty", doc.Author)
	}
}

func TestBuildServerForcesPrivate(t *testing.T) {
	doc := Build(Options{Private: boolPtr(false), License: "ISC"}, "api", flavor.Server)

	if doc.Private == nil || !*doc.Private {
		t.Error("server must always be private")
	}
	if doc.Scripts["prebuild"] != "yarn run lint && yarn run clean" {
		t.Errorf("prebuild = %q", doc.Scripts["prebuild"])
	}
	if _, ok := doc.Scripts["test"]; ok {
		t.Error("server has no test script")
	}
	if doc.License != "" || doc.Version != "" {
		t.Errorf("server carries no metadata, got license %q version %q", doc.License, doc.Version)
	}
	if len(doc.PreCommit) != 1 || doc.PreCommit[0] != "build" {
		t.Errorf("PreCommit = %v", doc.PreCommit)
	}
}

func TestBuildDoesNotShareScripts(t *testing.T) {
	a := Build(Options{}, "a", flavor.Library)
	a.Scripts["build"] = "changed"
	b := Build(Options{}, "b", flavor.Library)
	if b.Scripts["build"] != "tsc" {
		t.Error("documents must not share script maps")
	}
}

func TestMarshalLayout(t *testing.T) {
	data, err := Marshal(Build(Options{}, "demo", flavor.Library))
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)

	if strings.Contains(s, `\u0026`) {
		t.Error("&& must not be HTML-escaped")
	}
	if !strings.HasSuffix(s, "}\n") {
		t.Error("output should end with a newline")
	}
	if !strings.Contains(s, "\n  \"name\": \"demo\"") {
		t.Errorf("expected two-space indentation:\n%s", s)
	}

	order := []string{`"name"`, `"private"`, `"version"`, `"main"`, `"typings"`, `"license"`, `"scripts"`, `"pre-commit"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(s, key)
		if idx < 0 {
			t.Fatalf("missing key %s in\n%s", key, s)
		}
		if idx < last {
			t.Errorf("key %s out of order", key)
		}
		last = idx
	}
	if strings.Contains(s, `"author"`) || strings.Contains(s, `"description"`) {
		t.Error("empty author/description should be omitted")
	}
}

func TestWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "package.json")
	want := Build(Options{Description: "d"}, "demo", flavor.Library)

	if err := Write(path, want); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if got.Name != want.Name || got.Description != "d" || got.Private == nil || *got.Private {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestWriteFailsForMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "package.json")
	if err := Write(path, Build(Options{}, "demo", flavor.Library)); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("nothing should be written")
	}
}
