// Package cli defines the Cobra command tree for pkgen. Each file registers
// one top-level command with the root command. Running pkgen with a directory
// and no subcommand is the same as "pkgen create".
package cli
