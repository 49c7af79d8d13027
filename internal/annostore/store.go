// Package annostore persists named annotation event sets in a local
// SQLite catalog. Timestamp payloads are stored snappy-compressed with a
// murmur3 checksum that is verified on every read.
package annostore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang/snappy"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/spaolacci/murmur3"

	"github.com/chartmark/chartmark/internal/errors"
	"github.com/chartmark/chartmark/pkg/types"
)

// Store manages annotation set records.
type Store interface {
	// Put registers a new annotation set and returns its generated ID.
	Put(ctx context.Context, name string, times []int64) (string, error)

	// Get retrieves an annotation set by ID.
	Get(ctx context.Context, setID string) (types.EventSet, error)

	// GetByName retrieves an annotation set by its unique name.
	GetByName(ctx context.Context, name string) (types.EventSet, error)

	// List returns metadata for all annotation sets, newest first.
	List(ctx context.Context) ([]SetInfo, error)

	// Delete removes an annotation set by ID. Deleting an absent set is
	// not an error.
	Delete(ctx context.Context, setID string) error

	// Close closes the catalog database connection.
	Close() error
}

// SetInfo is the catalog metadata for one annotation set.
type SetInfo struct {
	SetID      string
	Name       string
	EventCount int64
	CreatedAt  time.Time
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the annotation catalog at dbPath.
func NewStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("annostore: failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("annostore: failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS annotation_sets (
			set_id      TEXT PRIMARY KEY,
			name        TEXT NOT NULL UNIQUE,
			event_count INTEGER NOT NULL,
			payload     BLOB NOT NULL,
			checksum    INTEGER NOT NULL,
			created_at  INTEGER NOT NULL
		)`)
	return err
}

// Put registers a new annotation set under a unique name.
func (s *SQLiteStore) Put(ctx context.Context, name string, times []int64) (string, error) {
	if name == "" {
		return "", errors.NewValidationError(errors.CodeInvalidAxisKey, "annotation set name is empty")
	}

	payload, err := json.Marshal(times)
	if err != nil {
		return "", errors.NewInternalError("failed to marshal annotation payload", err)
	}
	compressed := snappy.Encode(nil, payload)
	checksum := int64(murmur3.Sum64(compressed))

	setID := uuid.New().String()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO annotation_sets (set_id, name, event_count, payload, checksum, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		setID, name, len(times), compressed, checksum, time.Now().UnixMilli())
	if err != nil {
		if sqliteErr, ok := err.(sqlite3.Error); ok && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return "", errors.NewStoreError(errors.CodeDuplicateSetName,
				fmt.Sprintf("annotation set %q already exists", name), err)
		}
		return "", errors.NewStoreError(errors.CodeUnexpected, "failed to insert annotation set", err)
	}

	return setID, nil
}

// Get retrieves an annotation set by ID.
func (s *SQLiteStore) Get(ctx context.Context, setID string) (types.EventSet, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT set_id, name, payload, checksum FROM annotation_sets WHERE set_id = ?`, setID)
	return s.scanSet(row, setID)
}

// GetByName retrieves an annotation set by its unique name.
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (types.EventSet, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT set_id, name, payload, checksum FROM annotation_sets WHERE name = ?`, name)
	return s.scanSet(row, name)
}

func (s *SQLiteStore) scanSet(row *sql.Row, ref string) (types.EventSet, error) {
	var (
		set      types.EventSet
		payload  []byte
		checksum int64
	)
	if err := row.Scan(&set.ID, &set.Name, &payload, &checksum); err != nil {
		if err == sql.ErrNoRows {
			return types.EventSet{}, errors.NewStoreError(errors.CodeSetNotFound,
				fmt.Sprintf("annotation set %q not found", ref), nil)
		}
		return types.EventSet{}, errors.NewStoreError(errors.CodeUnexpected, "failed to read annotation set", err)
	}

	if int64(murmur3.Sum64(payload)) != checksum {
		return types.EventSet{}, errors.NewStoreError(errors.CodeCorruptPayload,
			fmt.Sprintf("annotation set %q failed checksum verification", ref), nil)
	}

	decoded, err := snappy.Decode(nil, payload)
	if err != nil {
		return types.EventSet{}, errors.NewStoreError(errors.CodeCorruptPayload,
			fmt.Sprintf("annotation set %q payload is not valid snappy data", ref), err)
	}
	if err := json.Unmarshal(decoded, &set.Times); err != nil {
		return types.EventSet{}, errors.NewStoreError(errors.CodeCorruptPayload,
			fmt.Sprintf("annotation set %q payload is not valid JSON", ref), err)
	}

	return set, nil
}

// List returns metadata for all annotation sets, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]SetInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT set_id, name, event_count, created_at
		FROM annotation_sets ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.NewStoreError(errors.CodeUnexpected, "failed to list annotation sets", err)
	}
	defer rows.Close()

	var infos []SetInfo
	for rows.Next() {
		var (
			info      SetInfo
			createdMs int64
		)
		if err := rows.Scan(&info.SetID, &info.Name, &info.EventCount, &createdMs); err != nil {
			return nil, errors.NewStoreError(errors.CodeUnexpected, "failed to scan annotation set", err)
		}
		info.CreatedAt = time.UnixMilli(createdMs)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreError(errors.CodeUnexpected, "failed to iterate annotation sets", err)
	}

	return infos, nil
}

// Delete removes an annotation set by ID.
func (s *SQLiteStore) Delete(ctx context.Context, setID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM annotation_sets WHERE set_id = ?`, setID); err != nil {
		return errors.NewStoreError(errors.CodeUnexpected, "failed to delete annotation set", err)
	}
	return nil
}

// Close closes the catalog database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
