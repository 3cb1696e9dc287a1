package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Gear and the ledger are the core
// tables; the ledger references gear and member rows by foreign key and
// never embeds duplicated data. Gear rows are never physically deleted:
// retired items stay around with status 'removed' so the ledger keeps
// resolving, which is why the tag uniqueness index excludes them.
const schema = `
CREATE TABLE IF NOT EXISTS members (
    id         INTEGER PRIMARY KEY,
    tag        TEXT NOT NULL,
    email      TEXT NOT NULL,
    first_name TEXT NOT NULL,
    last_name  TEXT NOT NULL,
    status     TEXT NOT NULL DEFAULT 'new' CHECK (status IN ('new', 'active', 'expired', 'suspended')),
    is_admin   INTEGER NOT NULL DEFAULT 0,
    joined_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    expires_at DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_members_tag ON members(tag);
CREATE UNIQUE INDEX IF NOT EXISTS idx_members_email ON members(email);

CREATE TABLE IF NOT EXISTS certifications (
    id           INTEGER PRIMARY KEY,
    title        TEXT NOT NULL UNIQUE,
    requirements TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS member_certifications (
    member_id        INTEGER NOT NULL REFERENCES members(id),
    certification_id INTEGER NOT NULL REFERENCES certifications(id),
    PRIMARY KEY (member_id, certification_id)
);

CREATE TABLE IF NOT EXISTS gear_types (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    department  TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS gear (
    id           INTEGER PRIMARY KEY,
    tag          TEXT NOT NULL,
    status       TEXT NOT NULL DEFAULT 'in_stock'
        CHECK (status IN ('in_stock', 'checked_out', 'broken', 'missing', 'dormant', 'removed')),
    holder_id    INTEGER REFERENCES members(id),
    due_date     DATETIME,
    gear_type_id INTEGER NOT NULL REFERENCES gear_types(id),
    data         TEXT NOT NULL DEFAULT '{}',
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK ((status = 'checked_out' AND holder_id IS NOT NULL AND due_date IS NOT NULL)
        OR (status != 'checked_out' AND holder_id IS NULL AND due_date IS NULL))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_gear_tag_active
    ON gear(tag) WHERE status != 'removed';

CREATE TABLE IF NOT EXISTS gear_certifications (
    gear_id          INTEGER NOT NULL REFERENCES gear(id),
    certification_id INTEGER NOT NULL REFERENCES certifications(id),
    PRIMARY KEY (gear_id, certification_id)
);

CREATE TABLE IF NOT EXISTS ledger (
    id            TEXT PRIMARY KEY,
    gear_id       INTEGER NOT NULL REFERENCES gear(id),
    action        TEXT NOT NULL,
    category      TEXT NOT NULL CHECK (category IN ('rental', 'admin', 'auto')),
    authorizer_id INTEGER NOT NULL REFERENCES members(id),
    member_id     INTEGER REFERENCES members(id),
    comment       TEXT NOT NULL DEFAULT '',
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_ledger_gear ON ledger(gear_id, created_at);
CREATE INDEX IF NOT EXISTS idx_ledger_member ON ledger(member_id);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{}

// Migrate creates the schema and runs all pending migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
