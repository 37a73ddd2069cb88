package cellstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cnf/structhash"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/leojohnthomas/lef-parser/lefparser"
)

// Config contains configuration for the SQLite-backed store.
type Config struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() *Config {
	return &Config{
		Path:         "data/cells.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// Snapshot is the stored metadata of one saved library.
type Snapshot struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Source      string    `json:"source,omitempty"`
	Fingerprint string    `json:"fingerprint"`
	MacroCount  int       `json:"macro_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Filter selects macros within a snapshot. Zero-valued fields match
// everything.
type Filter struct {
	Class      string // exact CLASS value
	Site       string // exact SITE value
	NamePrefix string // macro name prefix
	Limit      int    // max rows, 0 for all
	Offset     int    // rows to skip
}

// Store persists parsed macro libraries in SQLite.
type Store struct {
	db     *sql.DB
	config *Config
	logger *slog.Logger
}

// New opens (creating if necessary) the store at config.Path. It
// initializes the schema and enables WAL mode if configured.
func New(config *Config) (*Store, error) {
	if config == nil {
		config = DefaultConfig()
	}

	logger := slog.Default().With("component", "cellstore")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &Store{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("cell store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *Store) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// SaveSnapshot stores the macros as a new snapshot and returns its
// metadata. name labels the snapshot; source records where the library
// came from (usually a file path) and may be empty.
func (s *Store) SaveSnapshot(ctx context.Context, name, source string, macros []*lefparser.MacroRecord) (*Snapshot, error) {
	fingerprint, err := structhash.Hash(macros, 1)
	if err != nil {
		return nil, NewStorageError("sqlite", "fingerprint", err)
	}

	snap := &Snapshot{
		ID:          uuid.New().String(),
		Name:        name,
		Source:      source,
		Fingerprint: fingerprint,
		MacroCount:  len(macros),
		CreatedAt:   time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, NewStorageError("sqlite", "begin", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, name, source, fingerprint, macro_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Name, snap.Source, snap.Fingerprint, snap.MacroCount, snap.CreatedAt,
	)
	if err != nil {
		return nil, NewStorageError("sqlite", "save_snapshot", err)
	}

	insert, err := tx.PrepareContext(ctx,
		`INSERT INTO macros (snapshot_id, name, class, site, width, height, pin_count, rect_count, record)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return nil, NewStorageError("sqlite", "prepare", err)
	}
	defer insert.Close()

	for _, macro := range macros {
		record, err := json.Marshal(macro)
		if err != nil {
			return nil, NewStorageError("sqlite", "marshal_macro", err)
		}

		var width, height interface{}
		if macro.Size != nil {
			width, height = macro.Size.Width, macro.Size.Height
		}

		_, err = insert.ExecContext(ctx,
			snap.ID, macro.Name, macro.Class, macro.Site,
			width, height, len(macro.Pins), macro.RectCount(), string(record),
		)
		if err != nil {
			return nil, NewStorageError("sqlite", "save_macro", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, NewStorageError("sqlite", "commit", err)
	}

	s.logger.Info("snapshot saved",
		"id", snap.ID,
		"name", snap.Name,
		"macros", snap.MacroCount,
		"fingerprint", snap.Fingerprint,
	)

	return snap, nil
}

// Snapshots returns all snapshot metadata, newest first.
func (s *Store) Snapshots(ctx context.Context) ([]*Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, source, fingerprint, macro_count, created_at
		 FROM snapshots ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, NewStorageError("sqlite", "query_snapshots", err)
	}
	defer rows.Close()

	snapshots := []*Snapshot{}
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "query_snapshots", err)
	}

	return snapshots, nil
}

// Snapshot returns the snapshot with the given id, or
// ErrSnapshotNotFound.
func (s *Store) Snapshot(ctx context.Context, id string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, source, fingerprint, macro_count, created_at
		 FROM snapshots WHERE id = ?`, id,
	)
	snap, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, NewStorageError("sqlite", "query_snapshot", err)
	}
	return snap, nil
}

// FindSnapshot resolves ref as a snapshot id first, then as a snapshot
// name (returning the newest snapshot with that name).
func (s *Store) FindSnapshot(ctx context.Context, ref string) (*Snapshot, error) {
	snap, err := s.Snapshot(ctx, ref)
	if err == nil {
		return snap, nil
	}
	if err != ErrSnapshotNotFound {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, source, fingerprint, macro_count, created_at
		 FROM snapshots WHERE name = ? ORDER BY created_at DESC LIMIT 1`, ref,
	)
	snap, err = scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, NewStorageError("sqlite", "query_snapshot", err)
	}
	return snap, nil
}

// Macros returns the macro records of a snapshot matching the filter,
// in the order they appeared in the source file. A nil filter matches
// all macros.
func (s *Store) Macros(ctx context.Context, snapshotID string, filter *Filter) ([]*lefparser.MacroRecord, error) {
	if filter == nil {
		filter = &Filter{}
	}

	whereClause, args := buildWhereClause(snapshotID, filter)
	query := "SELECT record FROM macros WHERE " + whereClause + " ORDER BY rowid"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, NewStorageError("sqlite", "query_macros", err)
	}
	defer rows.Close()

	macros := []*lefparser.MacroRecord{}
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		var macro lefparser.MacroRecord
		if err := json.Unmarshal([]byte(record), &macro); err != nil {
			return nil, NewStorageError("sqlite", "unmarshal_macro", err)
		}
		macros = append(macros, &macro)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "query_macros", err)
	}

	return macros, nil
}

// Macro rehydrates a single macro record from a snapshot by name.
func (s *Store) Macro(ctx context.Context, snapshotID, name string) (*lefparser.MacroRecord, error) {
	var record string
	err := s.db.QueryRowContext(ctx,
		"SELECT record FROM macros WHERE snapshot_id = ? AND name = ?",
		snapshotID, name,
	).Scan(&record)
	if err == sql.ErrNoRows {
		return nil, ErrMacroNotFound
	}
	if err != nil {
		return nil, NewStorageError("sqlite", "query_macro", err)
	}

	var macro lefparser.MacroRecord
	if err := json.Unmarshal([]byte(record), &macro); err != nil {
		return nil, NewStorageError("sqlite", "unmarshal_macro", err)
	}
	return &macro, nil
}

// Count returns the number of macros stored for a snapshot.
func (s *Store) Count(ctx context.Context, snapshotID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM macros WHERE snapshot_id = ?", snapshotID,
	).Scan(&count)
	if err != nil {
		return 0, NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// DeleteSnapshot removes a snapshot and its macros. It returns the
// number of snapshots deleted (0 or 1).
func (s *Store) DeleteSnapshot(ctx context.Context, id string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, NewStorageError("sqlite", "begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM macros WHERE snapshot_id = ?", id); err != nil {
		return 0, NewStorageError("sqlite", "delete_macros", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return 0, NewStorageError("sqlite", "delete_snapshot", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError("sqlite", "delete_snapshot", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, NewStorageError("sqlite", "commit", err)
	}

	if count > 0 {
		s.logger.Info("snapshot deleted", "id", id)
	}
	return count, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError("sqlite", "close", err)
	}
	s.logger.Info("cell store closed")
	return nil
}

// buildWhereClause builds the WHERE clause for macro queries. Returns
// the clause (without the "WHERE" keyword) and the query arguments.
func buildWhereClause(snapshotID string, filter *Filter) (string, []interface{}) {
	conditions := "snapshot_id = ?"
	args := []interface{}{snapshotID}

	if filter.Class != "" {
		conditions += " AND class = ?"
		args = append(args, filter.Class)
	}
	if filter.Site != "" {
		conditions += " AND site = ?"
		args = append(args, filter.Site)
	}
	if filter.NamePrefix != "" {
		conditions += " AND name LIKE ?"
		args = append(args, filter.NamePrefix+"%")
	}

	return conditions, args
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanSnapshot.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanSnapshot reads one snapshots row.
func scanSnapshot(row rowScanner) (*Snapshot, error) {
	var snap Snapshot
	err := row.Scan(&snap.ID, &snap.Name, &snap.Source, &snap.Fingerprint, &snap.MacroCount, &snap.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
