package platform

import (
	"fmt"
	"os"
	"runtime"
)

const (
	privateFileMode os.FileMode = 0600
	privateDirMode  os.FileMode = 0700
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// PrivateDir creates dir if needed and restricts it to the current user.
func PrivateDir(dir string) error {
	if err := os.MkdirAll(dir, privateDirMode); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return Chmod(dir, privateDirMode)
}

// PrivateFile restricts an existing file to the current user. A missing file
// is not an error.
func PrivateFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return Chmod(path, privateFileMode)
}
