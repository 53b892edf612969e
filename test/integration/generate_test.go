//go:build integration

package integration_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkgen-dev/pkgen/internal/flavor"
	"github.com/pkgen-dev/pkgen/internal/generator"
	"github.com/pkgen-dev/pkgen/internal/journal"
	"github.com/pkgen-dev/pkgen/internal/naming"
	"github.com/pkgen-dev/pkgen/internal/vcs"
)

// TestGenerateLibrary runs the whole sequence with real git:
// manifest -> git init -> yarn add -> templates -> initial commit.
func TestGenerateLibrary(t *testing.T) {
	env := setupTestEnv(t)
	gen, j := newGenerator(t, env)

	res, err := gen.Run(context.Background(), generator.Options{
		PackageName: "demo",
		Flavor:      flavor.Library,
		Author:      "Ada <ada@example.com>",
		Cwd:         env.WorkDir,
	})
	if err != nil {
		t.Fatalf("Run: %v\n%s", err, env.Out.String())
	}

	root := filepath.Join(env.WorkDir, "demo")
	assertDirExists(t, filepath.Join(root, ".git"))
	assertFileContains(t, filepath.Join(root, "package.json"), `"name": "demo"`)
	assertFileContains(t, filepath.Join(root, "package.json"), `"prebuild": "yarn run lint && yarn test && yarn run clean"`)
	assertFileContains(t, filepath.Join(root, "README.md"), "img.shields.io/npm/v/demo.svg")
	assertFileContains(t, filepath.Join(root, "src", "index.ts"), "Ada <ada@example.com>")
	assertFileExists(t, filepath.Join(root, ".npmignore"))
	assertFileExists(t, filepath.Join(root, "test", "tsconfig.json"))
	assertFileNotExists(t, filepath.Join(root, "gitignore"))

	head, err := vcs.HeadCommit(root)
	if err != nil {
		t.Fatalf("HeadCommit: %v", err)
	}
	if res.CommitHash != head {
		t.Errorf("CommitHash = %q, HEAD = %q", res.CommitHash, head)
	}

	calls := yarnCalls(t, env)
	if len(calls) != 1 {
		t.Fatalf("yarn calls = %v", calls)
	}
	if !strings.HasPrefix(calls[0], "add --exact -D --offline") || !strings.HasSuffix(calls[0], "--cwd "+root) {
		t.Errorf("yarn call = %q", calls[0])
	}

	runs, err := j.List(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if runs[0].Status != journal.StatusSucceeded || runs[0].CommitHash != head {
		t.Errorf("journal run = %+v", runs[0])
	}
}

func TestGenerateServer(t *testing.T) {
	env := setupTestEnv(t)
	gen, _ := newGenerator(t, env)

	res, err := gen.Run(context.Background(), generator.Options{
		PackageName: filepath.Join("services", "api"),
		Flavor:      flavor.Server,
		Cwd:         env.WorkDir,
	})
	if err != nil {
		t.Fatalf("Run: %v\n%s", err, env.Out.String())
	}

	root := filepath.Join(env.WorkDir, "services", "api")
	assertFileContains(t, filepath.Join(root, "package.json"), `"private": true`)
	assertFileContains(t, filepath.Join(root, "README.md"), "# api")
	assertFileExists(t, filepath.Join(root, ".env"))
	assertFileExists(t, filepath.Join(root, "src", "middleware", "selectiveCORS.ts"))

	calls := yarnCalls(t, env)
	if len(calls) != 2 || !strings.Contains(calls[1], " koa ") || strings.Contains(calls[1], " -D ") {
		t.Errorf("yarn calls = %v", calls)
	}
	if len(res.NextSteps) != 2 {
		t.Errorf("NextSteps = %v", res.NextSteps)
	}
}

// TestGenerateTwice checks that a second run against the same root stops at
// validation and leaves the first run's history intact.
func TestGenerateTwice(t *testing.T) {
	env := setupTestEnv(t)
	gen, _ := newGenerator(t, env)
	opts := generator.Options{PackageName: "demo", Flavor: flavor.Library, Cwd: env.WorkDir}

	first, err := gen.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	callsBefore := len(yarnCalls(t, env))

	_, err = gen.Run(context.Background(), opts)
	var notEmpty *naming.DirectoryNotEmptyError
	if !errors.As(err, &notEmpty) {
		t.Fatalf("second Run err = %v, want DirectoryNotEmptyError", err)
	}
	if got := len(yarnCalls(t, env)); got != callsBefore {
		t.Errorf("second run invoked yarn (%d calls, want %d)", got, callsBefore)
	}
	head, err := vcs.HeadCommit(first.Context.Root)
	if err != nil || head != first.CommitHash {
		t.Errorf("HEAD moved: %q (err %v), want %q", head, err, first.CommitHash)
	}
}

// TestGenerateInsideExistingRepo leaves the enclosing repository alone.
func TestGenerateInsideExistingRepo(t *testing.T) {
	env := setupTestEnv(t)
	gen, _ := newGenerator(t, env)

	if err := vcs.New(gen.NewRunner(env.WorkDir)).Init(context.Background()); err != nil {
		t.Fatalf("git init: %v", err)
	}

	res, err := gen.Run(context.Background(), generator.Options{
		PackageName: filepath.Join("packages", "lib"),
		Flavor:      flavor.Library,
		Cwd:         env.WorkDir,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertFileNotExists(t, filepath.Join(res.Context.Root, ".git"))
	if res.CommitHash != "" {
		t.Errorf("CommitHash = %q, want none", res.CommitHash)
	}
}
