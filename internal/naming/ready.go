package naming

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkgen-dev/pkgen/internal/project"
)

// DirectoryNotEmptyError is returned when the project root already holds
// non-dotfile entries.
type DirectoryNotEmptyError struct {
	Root    string
	Entries []string
}

func (e *DirectoryNotEmptyError) Error() string {
	return fmt.Sprintf("%s is not empty (found %s)", e.Root, strings.Join(e.Entries, ", "))
}

// InvalidNameError is returned when the canonical name fails the naming rules.
type InvalidNameError struct {
	Name     string
	Errors   []string
	Warnings []string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("could not create a project called %q because of npm naming restrictions", e.Name)
}

// Problems returns errors followed by warnings, for display.
func (e *InvalidNameError) Problems() []string {
	return append(append([]string(nil), e.Errors...), e.Warnings...)
}

// CheckReady ensures the project root exists and is empty (dotfiles are
// ignored), then validates the canonical package name. The root directory may
// be created even when the name is later rejected.
func CheckReady(ctx *project.Context) error {
	if err := os.MkdirAll(ctx.Root, 0755); err != nil {
		return fmt.Errorf("creating project directory %s: %w", ctx.Root, err)
	}

	entries, err := os.ReadDir(ctx.Root)
	if err != nil {
		return fmt.Errorf("reading project directory %s: %w", ctx.Root, err)
	}
	var visible []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		visible = append(visible, e.Name())
	}
	if len(visible) > 0 {
		return &DirectoryNotEmptyError{Root: ctx.Root, Entries: visible}
	}

	res := Validate(ctx.Name)
	if !res.ValidForNewPackages {
		return &InvalidNameError{Name: ctx.Name, Errors: res.Errors, Warnings: res.Warnings}
	}
	return nil
}
