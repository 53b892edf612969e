package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func assertPerm(t *testing.T, path string, want os.FileMode) {
	t.Helper()
	if runtime.GOOS == "windows" {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != want {
		t.Errorf("%s permissions = %o, want %o", path, perm, want)
	}
}

func TestChmod(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")
	if err := os.WriteFile(path, []byte("test"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Chmod(path, 0600); err != nil {
		t.Fatalf("Chmod failed: %v", err)
	}
	assertPerm(t, path, 0600)
}

func TestPrivateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "home", ".pkgen")

	if err := PrivateDir(dir); err != nil {
		t.Fatalf("PrivateDir failed: %v", err)
	}
	assertPerm(t, dir, 0700)

	// Existing directories are tightened too.
	if err := os.Chmod(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := PrivateDir(dir); err != nil {
		t.Fatal(err)
	}
	assertPerm(t, dir, 0700)
}

func TestPrivateFile(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "history.db")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	if err := PrivateFile(path); err != nil {
		t.Fatalf("PrivateFile failed: %v", err)
	}
	assertPerm(t, path, 0600)

	if err := PrivateFile(filepath.Join(tmp, "missing")); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}
}
