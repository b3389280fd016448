package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/fragnav/internal/fragment"
	"github.com/nao1215/fragnav/internal/model"
)

// FileName is the name of the database file inside the database directory.
const FileName = "fragnav.db"

// ErrEntityNotFound is returned by GetEntity when no entity matches.
var ErrEntityNotFound = errors.New("entity not found")

// Store provides SQLite-based storage for entities and navigation history.
// It implements param.EntityFinder and pipeline.HistoryRecorder.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// codec counts parameter tokens of recorded navigations.
	codec *fragment.Codec

	// now is the clock, replaced in tests.
	now func() time.Time
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool

	// Codec splits recorded parameters into tokens. The default uses "/".
	Codec *fragment.Codec
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a Store in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc creates it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
		codec:  opts.Codec,
		now:    time.Now,
	}
	if s.codec == nil {
		s.codec = fragment.Default()
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	-- Entities referenced from URL parameters
	CREATE TABLE IF NOT EXISTS entities (
		type TEXT NOT NULL,
		key TEXT NOT NULL,
		attributes TEXT,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (type, key)
	);

	-- Navigation history; raw parameters are never stored
	CREATE TABLE IF NOT EXISTS navigations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		window_id TEXT NOT NULL,
		page_id TEXT NOT NULL,
		params_digest TEXT NOT NULL,
		param_count INTEGER NOT NULL,
		page_changed INTEGER NOT NULL,
		placed_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_navigations_window ON navigations(window_id);
	CREATE INDEX IF NOT EXISTS idx_navigations_page ON navigations(page_id);
	CREATE INDEX IF NOT EXISTS idx_navigations_placed_at ON navigations(placed_at);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// PutEntity inserts or replaces an entity. UpdatedAt is set by the store.
func (s *Store) PutEntity(ctx context.Context, entity *model.Entity) error {
	if entity.Type == "" || entity.Key == "" {
		return fmt.Errorf("failed to store entity: type and key are required (got %q, %q)", entity.Type, entity.Key)
	}

	attrs, err := json.Marshal(entity.Attributes)
	if err != nil {
		return fmt.Errorf("failed to serialize attributes: %w", err)
	}

	entity.UpdatedAt = s.now().UTC()

	query := `
	INSERT INTO entities (type, key, attributes, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(type, key) DO UPDATE SET
		attributes = excluded.attributes,
		updated_at = excluded.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		entity.Type,
		entity.Key,
		string(attrs),
		entity.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to store entity: %w", err)
	}

	return nil
}

// GetEntity retrieves an entity. It returns ErrEntityNotFound when none matches.
func (s *Store) GetEntity(ctx context.Context, typeTag, key string) (*model.Entity, error) {
	query := `
	SELECT type, key, attributes, updated_at
	FROM entities
	WHERE type = ? AND key = ?
	`

	entity, err := scanEntity(s.db.QueryRowContext(ctx, query, typeTag, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %q", ErrEntityNotFound, typeTag, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}

	return entity, nil
}

// FindEntity implements param.EntityFinder.
// A missing entity is reported through found, not as an error.
func (s *Store) FindEntity(ctx context.Context, typeTag, key string) (any, bool, error) {
	entity, err := s.GetEntity(ctx, typeTag, key)
	if errors.Is(err, ErrEntityNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return entity, true, nil
}

// ListEntities returns the entities of a type sorted by key.
// An empty typeTag lists every entity.
func (s *Store) ListEntities(ctx context.Context, typeTag string) ([]*model.Entity, error) {
	query := `
	SELECT type, key, attributes, updated_at
	FROM entities
	`
	args := make([]any, 0, 1)

	if typeTag != "" {
		query += " WHERE type = ?"
		args = append(args, typeTag)
	}
	query += " ORDER BY type, key"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	defer rows.Close()

	var entities []*model.Entity
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, entity)
	}

	return entities, rows.Err()
}

// DeleteEntity removes an entity. It returns ErrEntityNotFound when none matches.
func (s *Store) DeleteEntity(ctx context.Context, typeTag, key string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM entities WHERE type = ? AND key = ?", typeTag, key)
	if err != nil {
		return fmt.Errorf("failed to delete entity: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete entity: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %q", ErrEntityNotFound, typeTag, key)
	}
	return nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner) (*model.Entity, error) {
	var (
		entity    model.Entity
		attrs     sql.NullString
		updatedAt string
	)

	if err := row.Scan(&entity.Type, &entity.Key, &attrs, &updatedAt); err != nil {
		return nil, err
	}

	entity.UpdatedAt = parseTimestamp(updatedAt)
	if attrs.Valid && attrs.String != "" && attrs.String != "null" {
		if err := json.Unmarshal([]byte(attrs.String), &entity.Attributes); err != nil {
			return nil, fmt.Errorf("failed to parse attributes: %w", err)
		}
	}

	return &entity, nil
}

// RecordNavigation implements pipeline.HistoryRecorder.
func (s *Store) RecordNavigation(ctx context.Context, event model.NavigationEvent) error {
	record := model.NavigationRecord{
		WindowID:     event.WindowID,
		PageID:       event.PageID,
		ParamsDigest: ParamsDigest(event.Params),
		ParamCount:   s.codec.Count(event.Params),
		PageChanged:  event.PageChanged,
		PlacedAt:     s.now().UTC(),
	}

	query := `
	INSERT INTO navigations (window_id, page_id, params_digest, param_count, page_changed, placed_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		record.WindowID,
		record.PageID,
		record.ParamsDigest,
		record.ParamCount,
		record.PageChanged,
		record.PlacedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record navigation: %w", err)
	}

	return nil
}

// ListNavigations returns recorded navigations, most recent first.
// An empty windowID lists every window; a non-positive limit lists everything.
func (s *Store) ListNavigations(ctx context.Context, windowID string, limit int) ([]model.NavigationRecord, error) {
	query := `
	SELECT id, window_id, page_id, params_digest, param_count, page_changed, placed_at
	FROM navigations
	`
	args := make([]any, 0, 2)

	if windowID != "" {
		query += " WHERE window_id = ?"
		args = append(args, windowID)
	}
	query += " ORDER BY id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list navigations: %w", err)
	}
	defer rows.Close()

	var records []model.NavigationRecord
	for rows.Next() {
		var (
			record   model.NavigationRecord
			placedAt string
		)

		err := rows.Scan(
			&record.ID,
			&record.WindowID,
			&record.PageID,
			&record.ParamsDigest,
			&record.ParamCount,
			&record.PageChanged,
			&placedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan navigation: %w", err)
		}

		record.PlacedAt = parseTimestamp(placedAt)
		records = append(records, record)
	}

	return records, rows.Err()
}

// ParamsDigest returns the hex encoded SHA3-256 digest of the raw parameters.
func ParamsDigest(params fragment.Params) string {
	sum := sha3.Sum256([]byte(params.String()))
	return hex.EncodeToString(sum[:])
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
