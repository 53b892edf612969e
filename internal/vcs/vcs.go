// Package vcs drives git for a freshly generated project. Mutations go through
// the git executable so hooks and user configuration apply; read-only
// inspection uses go-git.
package vcs

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"

	"github.com/pkgen-dev/pkgen/internal/runner"
)

// InitialCommitMessage is the message of the commit made after generation.
const InitialCommitMessage = "Initialized package."

// Git runs git commands through a runner bound to the project root.
type Git struct {
	Runner runner.Runner
}

// New returns a Git that runs commands with r.
func New(r runner.Runner) *Git {
	return &Git{Runner: r}
}

// Available reports whether `git --version` succeeds.
func (g *Git) Available(ctx context.Context) bool {
	return runner.Available(ctx, g.Runner, "git", "--version")
}

// Init creates an empty repository in the runner's directory.
func (g *Git) Init(ctx context.Context) error {
	return g.Runner.Run(ctx, "git", "init")
}

// Commit stages every file and records a commit with message.
func (g *Git) Commit(ctx context.Context, message string) error {
	if err := g.Runner.Run(ctx, "git", "add", "-A"); err != nil {
		return err
	}
	return g.Runner.Run(ctx, "git", "commit", "-m", message)
}

// InsideRepo reports whether dir is inside an existing git work tree.
func InsideRepo(dir string) bool {
	_, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	return err == nil
}

// IsRepoRoot reports whether dir is itself the top level of a git work tree.
func IsRepoRoot(dir string) bool {
	_, err := git.PlainOpen(dir)
	return err == nil
}

// HeadCommit returns the abbreviated hash of HEAD in the repository at dir.
func HeadCommit(dir string) (string, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", fmt.Errorf("%s is not a git repository", dir)
		}
		return "", fmt.Errorf("opening repository: %w", err)
	}
	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	hash := ref.Hash().String()
	if len(hash) > 7 {
		hash = hash[:7]
	}
	return hash, nil
}
