// Package project derives the immutable per-run project context from the
// user-supplied package name.
package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkgen-dev/pkgen/internal/flavor"
)

// ManifestFile is the name of the generated manifest at the project root.
const ManifestFile = "package.json"

// ErrMissingPackageName is returned when no package name was supplied.
var ErrMissingPackageName = errors.New("package name is required")

// Context is computed once per generation run and never mutated.
type Context struct {
	Root         string // absolute project root
	Name         string // basename of Root, used as the package name
	ManifestPath string // Root/package.json
	Flavor       flavor.Flavor
}

// TemplateSet is the embedded template directory selected by the flavor.
func (c *Context) TemplateSet() string {
	return c.Flavor.Name()
}

// Resolve turns packageName into a Context. Relative names are joined onto
// cwd, which must be absolute. No filesystem access takes place.
func Resolve(packageName, cwd string, f flavor.Flavor) (*Context, error) {
	if strings.TrimSpace(packageName) == "" {
		return nil, ErrMissingPackageName
	}
	if f == nil {
		f = flavor.Library
	}

	root := packageName
	if !filepath.IsAbs(root) {
		if !filepath.IsAbs(cwd) {
			return nil, fmt.Errorf("base directory %q is not absolute", cwd)
		}
		root = filepath.Join(cwd, packageName)
	}
	root = filepath.Clean(root)

	return &Context{
		Root:         root,
		Name:         filepath.Base(root),
		ManifestPath: filepath.Join(root, ManifestFile),
		Flavor:       f,
	}, nil
}
