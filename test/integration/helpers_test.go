//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkgen-dev/pkgen/internal/generator"
	"github.com/pkgen-dev/pkgen/internal/journal"
	"github.com/pkgen-dev/pkgen/internal/netprobe"
	"github.com/pkgen-dev/pkgen/internal/runner"
	"github.com/pkgen-dev/pkgen/internal/ui"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir string // PKGEN_HOME
	BinDir  string // fake tools, first on PATH
	WorkDir string // where packages are generated
	YarnLog string // every fake yarn invocation, one per line
	Out     *bytes.Buffer
}

// fakeYarn answers --version and records everything else.
const fakeYarn = `#!/bin/sh
if [ "$1" = "--version" ]; then
  echo "1.22.19"
  exit 0
fi
echo "$*" >> "$YARN_LOG"
`

// setupTestEnv sandboxes HOME, PATH and git identity so generation runs
// against real git and a scripted yarn.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	env := &testEnv{
		HomeDir: t.TempDir(),
		BinDir:  t.TempDir(),
		WorkDir: t.TempDir(),
		Out:     &bytes.Buffer{},
	}
	env.YarnLog = filepath.Join(env.HomeDir, "yarn.log")

	writeFile(t, filepath.Join(env.BinDir, "yarn"), fakeYarn)
	if err := os.Chmod(filepath.Join(env.BinDir, "yarn"), 0755); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PKGEN_HOME", env.HomeDir)
	t.Setenv("HOME", env.HomeDir)
	t.Setenv("YARN_LOG", env.YarnLog)
	t.Setenv("PATH", env.BinDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_AUTHOR_NAME", "pkgen test")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "pkgen test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
	t.Setenv("https_proxy", "")
	t.Setenv("HTTPS_PROXY", "")

	return env
}

// offlineResolver fails every lookup.
type offlineResolver struct{}

func (offlineResolver) LookupHost(context.Context, string) ([]string, error) {
	return nil, errors.New("no such host")
}

// newGenerator wires the real runner, an offline prober and a journal in the
// sandboxed home.
func newGenerator(t *testing.T, env *testEnv) (*generator.Generator, *journal.Journal) {
	t.Helper()
	quiet := func(dir string) runner.Runner {
		return &runner.Exec{Dir: dir, Stdout: env.Out, Stderr: env.Out}
	}

	prober := netprobe.New("registry.yarnpkg.com", nil)
	prober.Resolver = offlineResolver{}

	gen := generator.New(ui.New(env.Out, env.Out), prober)
	gen.NewRunner = quiet

	j, err := journal.Open(filepath.Join(env.HomeDir, "history.db"))
	if err != nil {
		t.Fatalf("opening journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	gen.Journal = j
	return gen, j
}

// yarnCalls returns the recorded fake yarn invocations.
func yarnCalls(t *testing.T, env *testEnv) []string {
	t.Helper()
	data, err := os.ReadFile(env.YarnLog)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s (error: %v)", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory, but it is a file", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
