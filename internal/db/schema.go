package db

// SchemaSQL is the schema of the session journal database.
//
// The database lives in memory for the lifetime of one session and is never
// written to disk, so there are no migrations: every session starts from
// this schema.
//
// This is the SINGLE SOURCE OF TRUTH for the schema. Repository tests load it
// through GetSchemaSQL() instead of declaring their own tables.
const SchemaSQL = `
-- Diagnostics (caught failures reported to the operator)
CREATE TABLE IF NOT EXISTS diagnostics (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	request_id TEXT,
	operation TEXT NOT NULL,
	kind TEXT NOT NULL CHECK(kind IN ('transport', 'service', 'contract', 'input', 'stale', 'unknown')),
	subject TEXT,
	message TEXT NOT NULL,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_diagnostics_operation ON diagnostics(operation);
CREATE INDEX IF NOT EXISTS idx_diagnostics_timestamp ON diagnostics(timestamp);
`

// GetSchemaSQL returns the journal schema.
func GetSchemaSQL() string {
	return SchemaSQL
}
