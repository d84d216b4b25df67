package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/mapforge/mapforge/domain/mapping"
	"github.com/mapforge/mapforge/ports"
)

// Store errors.
var (
	ErrNotFound = errors.New("mapping config not found")
	ErrExists   = errors.New("mapping config already exists")
)

// MappingStore implements ports.MappingStore using SQLite. The connection
// list is stored as a JSON blob; the type columns exist for lookups only.
type MappingStore struct {
	db *DB
}

// NewMappingStore creates a new SQLite mapping store.
func NewMappingStore(db *DB) *MappingStore {
	return &MappingStore{db: db}
}

// Get retrieves a mapping configuration by name.
func (s *MappingStore) Get(ctx context.Context, name string) (mapping.Config, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM mappings WHERE name = ?
	`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return mapping.Config{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return mapping.Config{}, err
	}
	return mapping.Unmarshal([]byte(data))
}

// Save stores a new mapping configuration. Names are immutable: saving
// over an existing name fails instead of overwriting.
func (s *MappingStore) Save(ctx context.Context, cfg mapping.Config) error {
	data, err := mapping.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO mappings (name, source_family, source_type, target_family, target_type, data)
		VALUES (?, ?, ?, ?, ?, ?)
	`, cfg.Name, cfg.SourceFamily, cfg.SourceType, cfg.TargetFamily, cfg.TargetType, string(data))
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) && sqlErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
		return fmt.Errorf("%w: %s", ErrExists, cfg.Name)
	}
	return err
}

// List returns all mapping configuration names, sorted.
func (s *MappingStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM mappings ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes a mapping configuration.
func (s *MappingStore) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM mappings WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

var _ ports.MappingStore = (*MappingStore)(nil)
