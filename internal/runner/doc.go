// Package runner spawns external tools (yarn, git, npm) with inherited
// standard streams and reports failures as structured *CommandError values.
package runner
