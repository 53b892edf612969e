package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/pkgen-dev/pkgen/internal/manifest"
	"github.com/pkgen-dev/pkgen/internal/project"
)

//go:embed templates
var embedded embed.FS

const (
	templatesRoot = "templates"
	tmplSuffix    = ".tmpl"
	readmeFile    = "README.md"
)

// Data holds the variables available to .tmpl files.
type Data struct {
	Name        string
	Description string
	Author      string
	License     string
	Year        int
}

// Result holds the outcome of a materialization.
type Result struct {
	Root string
	// Files are root-relative, slash-separated and sorted.
	Files    []string
	Warnings []string
}

// MissingTemplateError is returned when a rename source was not produced by
// the template copy.
type MissingTemplateError struct {
	Path string
}

func (e *MissingTemplateError) Error() string {
	return fmt.Sprintf("template file %s is missing", e.Path)
}

// NewData derives template variables from the package manifest.
func NewData(doc *manifest.Document) *Data {
	return &Data{
		Name:        doc.Name,
		Description: doc.Description,
		Author:      doc.Author,
		License:     doc.License,
		Year:        time.Now().Year(),
	}
}

// TemplateSets lists the embedded template set names.
func TemplateSets() ([]string, error) {
	entries, err := fs.ReadDir(embedded, templatesRoot)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Materialize copies the flavor's template set into ctx.Root, applies the
// flavor's rename table and writes README.md.
func Materialize(ctx *project.Context, data *Data) (*Result, error) {
	return materialize(embedded, ctx, data)
}

func materialize(fsys fs.FS, ctx *project.Context, data *Data) (*Result, error) {
	setDir := path.Join(templatesRoot, ctx.TemplateSet())
	if _, err := fs.Stat(fsys, setDir); err != nil {
		return nil, fmt.Errorf("template set %q not found: %w", ctx.TemplateSet(), err)
	}
	if data == nil {
		data = &Data{Name: ctx.Name, Year: time.Now().Year()}
	}

	written := map[string]bool{}
	err := fs.WalkDir(fsys, setDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, setDir), "/")
		if rel == "" {
			return nil
		}
		dest := filepath.Join(ctx.Root, filepath.FromSlash(rel))
		if d.IsDir() {
			return os.MkdirAll(dest, 0755)
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", rel, err)
		}
		if strings.HasSuffix(rel, tmplSuffix) {
			rel = strings.TrimSuffix(rel, tmplSuffix)
			dest = strings.TrimSuffix(dest, tmplSuffix)
			content, err = render(rel, content, data)
			if err != nil {
				return err
			}
		}
		if err := os.WriteFile(dest, content, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", dest, err)
		}
		written[rel] = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, r := range ctx.Flavor.Renames() {
		from := filepath.Join(ctx.Root, filepath.FromSlash(r.From))
		to := filepath.Join(ctx.Root, filepath.FromSlash(r.To))
		if _, err := os.Stat(from); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &MissingTemplateError{Path: r.From}
			}
			return nil, err
		}
		if err := os.Rename(from, to); err != nil {
			return nil, fmt.Errorf("renaming %s to %s: %w", r.From, r.To, err)
		}
		delete(written, r.From)
		written[r.To] = true
	}

	readme := filepath.Join(ctx.Root, readmeFile)
	if err := os.WriteFile(readme, []byte(ctx.Flavor.Readme(ctx.Name)), 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", readme, err)
	}
	written[readmeFile] = true

	result := &Result{Root: ctx.Root}
	for f := range written {
		result.Files = append(result.Files, f)
	}
	sort.Strings(result.Files)

	// The manifest must still satisfy the schema with the templates in place.
	if _, err := os.Stat(ctx.ManifestPath); err == nil {
		res, valErr := manifest.ValidateFile(ctx.ManifestPath)
		if valErr != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Could not validate %s: %v", project.ManifestFile, valErr))
		} else if !res.Valid {
			for _, issue := range res.Issues {
				result.Warnings = append(result.Warnings, issue.String())
			}
		}
	}

	return result, nil
}

func render(name string, content []byte, data *Data) ([]byte, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
