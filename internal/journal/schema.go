package journal

// schemaSQL creates the journal tables. Timestamps are RFC 3339 text in UTC.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	root TEXT NOT NULL,
	name TEXT NOT NULL,
	flavor TEXT NOT NULL,
	state TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('running', 'succeeded', 'failed')),
	error TEXT NOT NULL DEFAULT '',
	warnings TEXT NOT NULL DEFAULT '',
	commit_hash TEXT NOT NULL DEFAULT '',
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS transitions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL,
	state TEXT NOT NULL,
	at TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_transitions_run ON transitions(run_id);
`
