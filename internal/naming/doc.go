// Package naming validates package names against the npm registry naming
// rules and checks that a project root is ready to receive a new package.
package naming
