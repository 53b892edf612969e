package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/pkgen-dev/pkgen/internal/branding"
	"github.com/pkgen-dev/pkgen/internal/flavor"
	"github.com/pkgen-dev/pkgen/internal/journal"
	"github.com/pkgen-dev/pkgen/internal/manifest"
	"github.com/pkgen-dev/pkgen/internal/naming"
	"github.com/pkgen-dev/pkgen/internal/project"
	"github.com/pkgen-dev/pkgen/internal/runner"
	"github.com/pkgen-dev/pkgen/internal/scaffold"
	"github.com/pkgen-dev/pkgen/internal/ui"
	"github.com/pkgen-dev/pkgen/internal/vcs"
)

const (
	packageManager = "yarn"
	// YarnConstraint is the package manager version range accepted by the
	// toolchain check.
	YarnConstraint = ">= 1.0.0"
)

// Options are fully resolved generation inputs. Nothing is prompted for once
// a run starts.
type Options struct {
	PackageName string
	Description string
	License     string
	Author      string
	Private     *bool
	Flavor      flavor.Flavor
	// Cwd is the absolute directory relative names resolve against.
	Cwd string
	// StrictCommit makes a failed initial commit fail the run.
	StrictCommit bool
}

// Prober reports whether the package registry is reachable.
type Prober interface {
	Online(ctx context.Context) bool
}

// Journal records run progress. *journal.Journal satisfies it.
type Journal interface {
	Begin(ctx context.Context, root, name, flavor, state string) (int64, error)
	Transition(ctx context.Context, id int64, state string) error
	Finish(ctx context.Context, id int64, out journal.Outcome) error
}

// Result summarizes a run. On failure State is the last state reached.
type Result struct {
	Context    *project.Context
	State      State
	Warnings   []string
	CommitHash string
	NextSteps  []string
}

// Generator holds the collaborators of a run.
type Generator struct {
	UI *ui.Printer
	// NewRunner returns a runner whose commands execute in dir.
	NewRunner func(dir string) runner.Runner
	// Prober nil means always online.
	Prober Prober
	// Journal is optional.
	Journal Journal
	// InstallURL is shown when the package manager is unusable.
	InstallURL string
	// InsideRepo, IsRepoRoot and HeadCommit inspect git state; they default
	// to the vcs package.
	InsideRepo func(dir string) bool
	IsRepoRoot func(dir string) bool
	HeadCommit func(dir string) (string, error)
}

// New returns a Generator that runs real commands and prints to p.
func New(p *ui.Printer, prober Prober) *Generator {
	return &Generator{
		UI:         p,
		NewRunner:  func(dir string) runner.Runner { return runner.New(dir) },
		Prober:     prober,
		InstallURL: branding.YarnInstallURL(),
		InsideRepo: vcs.InsideRepo,
		IsRepoRoot: vcs.IsRepoRoot,
		HeadCommit: vcs.HeadCommit,
	}
}

// run carries the per-invocation state.
type run struct {
	g      *Generator
	opts   Options
	pctx   *project.Context
	r      runner.Runner
	res    *Result
	id     int64
	logged bool
}

// Run generates a package. Errors are *StepError; a non-nil Result is
// returned whenever the project context could be resolved.
func (g *Generator) Run(ctx context.Context, opts Options) (*Result, error) {
	pctx, err := project.Resolve(opts.PackageName, opts.Cwd, opts.Flavor)
	if err != nil {
		return nil, &StepError{State: Validating, Err: err}
	}

	rn := &run{g: g, opts: opts, pctx: pctx, res: &Result{Context: pctx, State: Validating}}
	rn.begin(ctx)

	err = rn.execute(ctx)
	rn.finish(ctx, err)
	if err != nil {
		return rn.res, err
	}
	return rn.res, nil
}

func (rn *run) execute(ctx context.Context) error {
	g, pctx := rn.g, rn.pctx

	if err := naming.CheckReady(pctx); err != nil {
		return rn.fail(Validating, err)
	}

	g.UI.Infof("Creating a new package in %s. Project type is %s.", ui.Highlight(pctx.Root), ui.Highlight(ui.Title(pctx.Flavor.Name())))
	doc := manifest.Build(manifest.Options{
		Description: rn.opts.Description,
		License:     rn.opts.License,
		Author:      rn.opts.Author,
		Private:     rn.opts.Private,
	}, pctx.Name, pctx.Flavor)
	if err := writeManifest(pctx.ManifestPath, doc); err != nil {
		return rn.fail(ManifestWritten, err)
	}
	rn.reach(ctx, ManifestWritten)

	rn.r = g.NewRunner(pctx.Root)
	if _, err := CheckToolchain(ctx, rn.r, g.InstallURL); err != nil {
		return rn.fail(ToolchainChecked, err)
	}
	rn.reach(ctx, ToolchainChecked)

	// The root gets its own repository unless it already is one or sits
	// inside a parent work tree. Only a repository rooted here is committed to.
	git := vcs.New(rn.r)
	commit := false
	if git.Available(ctx) {
		switch {
		case rn.repoRoot():
			commit = true
		case !rn.insideRepo():
			g.UI.Step("Initializing git repository.")
			if err := git.Init(ctx); err != nil {
				return rn.fail(RepoInitialized, err)
			}
			commit = true
			rn.reach(ctx, RepoInitialized)
		}
	}

	g.UI.Step("Installing dev dependencies.")
	if err := rn.install(ctx, pctx.Flavor.DevDependencies(), true); err != nil {
		return rn.fail(DevDepsInstalled, err)
	}
	rn.reach(ctx, DevDepsInstalled)

	if deps := pctx.Flavor.Dependencies(); len(deps) > 0 {
		g.UI.Step(fmt.Sprintf("Installing dependencies of the %s project.", pctx.Flavor.Name()))
		if err := rn.install(ctx, deps, false); err != nil {
			return rn.fail(FlavorDepsInstalled, err)
		}
		rn.reach(ctx, FlavorDepsInstalled)
	}

	g.UI.Step("Writing template files.")
	written, err := scaffold.Materialize(pctx, scaffold.NewData(doc))
	if err != nil {
		return rn.fail(TemplatesWritten, err)
	}
	rn.res.Warnings = append(rn.res.Warnings, written.Warnings...)
	rn.reach(ctx, TemplatesWritten)

	if commit {
		g.UI.Step("Committing the initial version.")
		if err := git.Commit(ctx, vcs.InitialCommitMessage); err != nil {
			if rn.opts.StrictCommit {
				return rn.fail(Committed, err)
			}
			rn.warn(fmt.Sprintf("Initial commit failed: %v", err))
		} else {
			rn.reach(ctx, Committed)
			if hash, err := rn.headCommit(); err != nil {
				rn.warn(fmt.Sprintf("Could not read the initial commit: %v", err))
			} else {
				rn.res.CommitHash = hash
			}
		}
	}

	rn.res.NextSteps = pctx.Flavor.NextSteps(rn.opts.PackageName)
	rn.reach(ctx, Done)
	g.UI.Success("Create package succeed! Enjoy your coding.")
	return nil
}

// writeManifest validates doc against the package.json schema before writing
// it. A schema violation here is a bug in the builder, not a user error.
func writeManifest(path string, doc *manifest.Document) error {
	res, err := manifest.ValidateDocument(doc)
	if err != nil {
		return err
	}
	if !res.Valid {
		var issues []string
		for _, issue := range res.Issues {
			issues = append(issues, issue.String())
		}
		return fmt.Errorf("generated %s is invalid: %s", project.ManifestFile, strings.Join(issues, "; "))
	}
	return manifest.Write(path, doc)
}

// CheckToolchain verifies that the package manager runs through r and
// satisfies YarnConstraint. It returns the reported version.
func CheckToolchain(ctx context.Context, r runner.Runner, installURL string) (string, error) {
	te := &ToolchainError{Tool: packageManager, Constraint: YarnConstraint, URL: installURL}

	out, err := r.Output(ctx, packageManager, "--version")
	if err != nil {
		te.Err = err
		return "", te
	}

	te.Found = versionLine(out)
	v, err := semver.NewVersion(te.Found)
	if err != nil {
		te.Err = fmt.Errorf("parsing %s version %q: %w", packageManager, te.Found, err)
		return te.Found, te
	}
	c, err := semver.NewConstraint(YarnConstraint)
	if err != nil {
		return te.Found, err
	}
	if !c.Check(v) {
		return te.Found, te
	}
	return te.Found, nil
}

// versionLine returns the last non-empty line of out. Shims and corepack may
// print notices before the version itself.
func versionLine(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// install runs `yarn add --exact [-D] [--offline] deps... --cwd root`.
func (rn *run) install(ctx context.Context, deps []string, dev bool) error {
	online := rn.g.Prober == nil || rn.g.Prober.Online(ctx)

	args := []string{"add", "--exact"}
	if dev {
		args = append(args, "-D")
	}
	if !online {
		args = append(args, "--offline")
	}
	args = append(args, deps...)
	args = append(args, "--cwd", rn.pctx.Root)

	if !online {
		rn.g.UI.Warn("You appear to be offline.")
		rn.g.UI.Warn("Falling back to the local Yarn cache.")
		rn.g.UI.Infof("")
	}
	return rn.r.Run(ctx, packageManager, args...)
}

func (rn *run) insideRepo() bool {
	if rn.g.InsideRepo == nil {
		return false
	}
	return rn.g.InsideRepo(rn.pctx.Root)
}

func (rn *run) repoRoot() bool {
	if rn.g.IsRepoRoot == nil {
		return false
	}
	return rn.g.IsRepoRoot(rn.pctx.Root)
}

func (rn *run) headCommit() (string, error) {
	if rn.g.HeadCommit == nil {
		return "", errors.New("no commit inspector")
	}
	return rn.g.HeadCommit(rn.pctx.Root)
}

func (rn *run) fail(step State, err error) error {
	return &StepError{State: step, Err: err}
}

func (rn *run) warn(msg string) {
	rn.res.Warnings = append(rn.res.Warnings, msg)
	rn.g.UI.Warn(msg)
}

// ─── journal ───────────────────────────────────────────────────────

// Journal failures never fail a run; they surface as warnings.

func (rn *run) begin(ctx context.Context) {
	if rn.g.Journal == nil {
		return
	}
	id, err := rn.g.Journal.Begin(ctx, rn.pctx.Root, rn.pctx.Name, rn.pctx.Flavor.Name(), Validating.String())
	if err != nil {
		rn.warn(fmt.Sprintf("Run history unavailable: %v", err))
		return
	}
	rn.id, rn.logged = id, true
}

func (rn *run) reach(ctx context.Context, s State) {
	rn.res.State = s
	if !rn.logged {
		return
	}
	if err := rn.g.Journal.Transition(ctx, rn.id, s.String()); err != nil {
		rn.warn(fmt.Sprintf("Run history unavailable: %v", err))
		rn.logged = false
	}
}

func (rn *run) finish(ctx context.Context, runErr error) {
	if !rn.logged {
		return
	}
	out := journal.Outcome{
		State:      rn.res.State.String(),
		Err:        runErr,
		Warnings:   rn.res.Warnings,
		CommitHash: rn.res.CommitHash,
	}
	// Record the outcome even when the run was interrupted.
	if err := rn.g.Journal.Finish(context.WithoutCancel(ctx), rn.id, out); err != nil {
		rn.warn(fmt.Sprintf("Run history unavailable: %v", err))
	}
}
