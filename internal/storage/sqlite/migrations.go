package sqlite

import "database/sql"

// schema sets up the session tables. Money is stored as TEXT so decimal
// values round-trip exactly.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    total_bill TEXT NOT NULL,
    tax_kind TEXT NOT NULL,
    tax_value TEXT NOT NULL,
    service_kind TEXT NOT NULL,
    service_value TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS participants (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    name TEXT NOT NULL,
    position INTEGER NOT NULL,
    FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS items (
    id TEXT PRIMARY KEY,
    participant_id TEXT NOT NULL,
    label TEXT NOT NULL,
    price TEXT NOT NULL,
    position INTEGER NOT NULL,
    FOREIGN KEY (participant_id) REFERENCES participants(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_participants_session_id ON participants(session_id, position);
CREATE INDEX IF NOT EXISTS idx_items_participant_id ON items(participant_id, position);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
