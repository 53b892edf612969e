// Package manifest builds the package.json document for a new project,
// writes it with a stable layout, and validates it against an embedded JSON
// Schema before anything else touches the project root.
package manifest
