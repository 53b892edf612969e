// Package journal keeps a local SQLite record of generation runs: when each
// run started, every state it reached, and how it ended. `pkgen history`
// reads it back so a failed run shows how far it got.
package journal
