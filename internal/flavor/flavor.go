// Package flavor defines the closed set of project archetypes the generator
// can produce. Each variant carries its manifest rules, dependency lists,
// rename table and README, so callers select a flavor once and never branch on
// its name again.
package flavor

import (
	"fmt"
	"strings"
)

// Flavor is implemented only by the variants in this package.
type Flavor interface {
	// Name is the canonical identifier and the embedded template set name.
	Name() string
	// Manifest returns the flavor-specific additions to package.json.
	Manifest() ManifestRules
	// DevDependencies are installed with `yarn add -D`.
	DevDependencies() []string
	// Dependencies are runtime dependencies; empty when the flavor has none.
	Dependencies() []string
	// Renames maps template-internal names to their final names, applied in order.
	Renames() []Rename
	// Readme returns the README.md content for a package called name.
	Readme(name string) string
	// Prompts reports whether package metadata is asked for interactively.
	Prompts() bool
	// NextSteps lists the commands suggested after a successful run.
	NextSteps(dir string) []string

	sealed()
}

// ManifestRules describes how a flavor extends the base package.json.
type ManifestRules struct {
	Version      string
	ForcePrivate bool
	// Metadata carries license, author, description and visibility from the options.
	Metadata  bool
	Typings   string
	Scripts   map[string]string
	PreCommit []string
}

// Rename is a single template rename, relative to the project root with
// forward slashes.
type Rename struct {
	From string
	To   string
}

var commonRenames = []Rename{
	{From: "gitignore", To: ".gitignore"},
	{From: "tslint", To: "tslint.json"},
	{From: "tsconfig", To: "tsconfig.json"},
}

var commonDevDependencies = []string{
	"@types/node", "typescript",
	"pre-commit", "ts-node", "tslint", "tslint-clean-code",
}

// Library is the default flavor: a publishable npm package with a mocha test suite.
var Library Flavor = library{}

// Server is a private Koa service with MongoDB, JWT and CORS wiring.
var Server Flavor = server{}

// All lists every flavor in display order.
func All() []Flavor { return []Flavor{Library, Server} }

// Names returns the canonical names of every flavor.
func Names() []string {
	var names []string
	for _, f := range All() {
		names = append(names, f.Name())
	}
	return names
}

// Parse maps a user-supplied name to a flavor. The historical names "npm" and
// "koa" are accepted. Unknown values fall back to Library with ok=false.
func Parse(s string) (f Flavor, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "library", "lib", "npm":
		return Library, true
	case "server", "koa":
		return Server, true
	default:
		return Library, false
	}
}

// ─── library ───────────────────────────────────────────────────────

type library struct{}

func (library) sealed() {}

func (library) Name() string { return "library" }

func (library) Manifest() ManifestRules {
	return ManifestRules{
		Version:  "0.0.1",
		Metadata: true,
		Typings:  "./build/index.d.ts",
		Scripts: map[string]string{
			"prebuild":       "yarn run lint && yarn test && yarn run clean",
			"prepublishOnly": "yarn build",
			"test":           "mocha --require ts-node/register ./test/*.spec.ts",
		},
		PreCommit: []string{"prepublishOnly"},
	}
}

func (library) DevDependencies() []string {
	return append(append([]string(nil), commonDevDependencies...), "@types/mocha", "mocha")
}

func (library) Dependencies() []string { return nil }

func (library) Renames() []Rename {
	return append(append([]Rename(nil), commonRenames...),
		Rename{From: "npmignore", To: ".npmignore"},
		Rename{From: "test/tsconfig", To: "test/tsconfig.json"},
	)
}

func (library) Readme(name string) string {
	return fmt.Sprintf("# %s\n\n##  ![NPM version](https://img.shields.io/npm/v/%s.svg?style=flat)", name, name)
}

func (library) Prompts() bool { return true }

func (library) NextSteps(dir string) []string {
	return []string{fmt.Sprintf("cd %s && yarn build", dir)}
}

// ─── server ────────────────────────────────────────────────────────

type server struct{}

func (server) sealed() {}

func (server) Name() string { return "server" }

func (server) Manifest() ManifestRules {
	return ManifestRules{
		ForcePrivate: true,
		Scripts: map[string]string{
			"prebuild": "yarn run lint && yarn run clean",
		},
		PreCommit: []string{"build"},
	}
}

func (server) DevDependencies() []string {
	return append([]string(nil), commonDevDependencies...)
}

func (server) Dependencies() []string {
	return []string{
		"@types/jsonwebtoken", "jsonwebtoken",
		"@types/kcors", "kcors",
		"@types/koa", "koa",
		"@types/koa-compress", "koa-compress",
		"@types/mongoose", "mongoose",
		"@types/dotenv", "dotenv",
		"koa-erz-logger", "koact",
		"mongoose-explain-checker", "mongoose-finder-enhancer",
		"schema.io", "erz",
	}
}

func (server) Renames() []Rename {
	return append(append([]Rename(nil), commonRenames...),
		Rename{From: "env", To: ".env"},
	)
}

func (server) Readme(name string) string {
	return "# " + name
}

func (server) Prompts() bool { return false }

func (server) NextSteps(dir string) []string {
	return []string{
		fmt.Sprintf("cd %s && yarn build", dir),
		"yarn start",
	}
}
