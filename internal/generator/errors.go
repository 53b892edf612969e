package generator

import "fmt"

// StepError reports the failing step. Its message is the underlying error's.
type StepError struct {
	State State
	Err   error
}

func (e *StepError) Error() string { return e.Err.Error() }

func (e *StepError) Unwrap() error { return e.Err }

// ToolchainError is returned when the package manager is missing or too old.
type ToolchainError struct {
	Tool       string
	Found      string // reported version; empty when the tool did not run
	Constraint string
	URL        string
	Err        error
}

func (e *ToolchainError) Error() string {
	if e.Found == "" {
		return fmt.Sprintf("You should install %s first. %s", e.Tool, e.URL)
	}
	return fmt.Sprintf("%s %s does not satisfy %s. Install a supported version: %s", e.Tool, e.Found, e.Constraint, e.URL)
}

func (e *ToolchainError) Unwrap() error { return e.Err }
