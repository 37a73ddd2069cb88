package cellstore

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the cellstore schema.
const Schema = `
-- Library snapshots
CREATE TABLE IF NOT EXISTS snapshots (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    source TEXT,
    fingerprint TEXT NOT NULL,
    macro_count INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Macro records, one row per macro per snapshot. The record column
-- holds the full JSON serialization; the other columns exist for
-- SQL-side filtering.
CREATE TABLE IF NOT EXISTS macros (
    snapshot_id TEXT NOT NULL,
    name TEXT NOT NULL,
    class TEXT,
    site TEXT,
    width REAL,
    height REAL,
    pin_count INTEGER NOT NULL,
    rect_count INTEGER NOT NULL,
    record TEXT NOT NULL,
    PRIMARY KEY (snapshot_id, name)
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_snapshots_name ON snapshots(name);
CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at);
CREATE INDEX IF NOT EXISTS idx_macros_snapshot_id ON macros(snapshot_id);
CREATE INDEX IF NOT EXISTS idx_macros_class ON macros(class);
CREATE INDEX IF NOT EXISTS idx_macros_site ON macros(site);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
