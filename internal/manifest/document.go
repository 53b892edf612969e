package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkgen-dev/pkgen/internal/flavor"
)

// DefaultLicense is used when the user leaves the license blank.
const DefaultLicense = "MIT"

// Document is the generated package.json. Field order here is the key order
// in the written file; scripts are emitted sorted by name.
type Document struct {
	Name        string            `json:"name"`
	Private     *bool             `json:"private,omitempty"`
	Version     string            `json:"version,omitempty"`
	Description string            `json:"description,omitempty"`
	Main        string            `json:"main"`
	Typings     string            `json:"typings,omitempty"`
	License     string            `json:"license,omitempty"`
	Author      string            `json:"author,omitempty"`
	Scripts     map[string]string `json:"scripts"`
	PreCommit   []string          `json:"pre-commit,omitempty"`
}

// Options carries the user-supplied metadata that ends up in the document.
type Options struct {
	Description string
	License     string
	Author      string
	Private     *bool
}

// baseScripts are present in every generated package.
func baseScripts() map[string]string {
	return map[string]string{
		"build":    "tsc",
		"clean":    "rm -rf ./build",
		"start":    "node ./build/index",
		"start-ts": "ts-node ./src/index",
		"lint":     "tslint -c tslint.json ./src/**/*.ts",
	}
}

// Build assembles the document for a package called name. It is pure: the
// same inputs always yield the same document.
func Build(opts Options, name string, f flavor.Flavor) *Document {
	doc := &Document{
		Name:    name,
		Main:    "./build/index.js",
		Scripts: baseScripts(),
	}

	rules := f.Manifest()
	doc.Version = rules.Version
	doc.Typings = rules.Typings
	for k, v := range rules.Scripts {
		doc.Scripts[k] = v
	}
	if len(rules.PreCommit) > 0 {
		doc.PreCommit = append([]string(nil), rules.PreCommit...)
	}

	if rules.Metadata {
		private := opts.Private != nil && *opts.Private
		doc.Private = &private
		doc.License = opts.License
		if doc.License == "" {
			doc.License = DefaultLicense
		}
		doc.Author = opts.Author
		doc.Description = opts.Description
	}
	if rules.ForcePrivate {
		private := true
		doc.Private = &private
	}

	return doc
}

// Marshal serializes doc with two-space indentation and a trailing newline.
// Shell operators such as && are kept literal.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding package.json: %w", err)
	}
	return buf.Bytes(), nil
}

// Write serializes doc to path.
func Write(path string, doc *Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadFile loads a package.json from disk.
func ReadFile(path string) (*Document, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &doc, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
