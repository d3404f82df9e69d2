package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/oakline/gatehouse/internal/domain/preauth"
	"github.com/oakline/gatehouse/internal/repository"
)

const preauthColumns = `
	id, created_at, name, company, contact_number, known_license_plates,
	notes, category, is_active, archived`

// PreAuthStore implements repository.PreAuthStore over SQLite.
type PreAuthStore struct {
	db *DB
}

// NewPreAuthStore creates a new PreAuthStore.
func NewPreAuthStore(db *DB) *PreAuthStore {
	return &PreAuthStore{db: db}
}

// Query matches active, non-archived contractors whose name or company
// contains the term, case-insensitively.
func (s *PreAuthStore) Query(ctx context.Context, term string, limit int) ([]preauth.Contractor, error) {
	query := `
		SELECT ` + preauthColumns + `
		FROM pre_authorized_contractors
		WHERE is_active = 1 AND archived = 0
		  AND (LOWER(name) LIKE '%' || LOWER(?) || '%'
		    OR LOWER(company) LIKE '%' || LOWER(?) || '%')
		ORDER BY name
		LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, term, term, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: preauth query: %v", repository.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []preauth.Contractor
	for rows.Next() {
		c, err := scanContractor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one contractor by id.
func (s *PreAuthStore) Get(ctx context.Context, id string) (*preauth.Contractor, error) {
	query := `SELECT ` + preauthColumns + ` FROM pre_authorized_contractors WHERE id = ?`
	c, err := scanContractor(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: preauth get: %v", repository.ErrUnavailable, err)
	}
	return c, nil
}

// Insert adds a contractor to the directory.
func (s *PreAuthStore) Insert(ctx context.Context, c *preauth.Contractor) error {
	plates, err := marshalStrings(c.KnownLicensePlates)
	if err != nil {
		return fmt.Errorf("encoding plates: %w", err)
	}
	query := `
		INSERT INTO pre_authorized_contractors (` + preauthColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query,
		c.ID,
		c.CreatedAt,
		c.Name,
		c.Company,
		c.ContactNumber,
		plates,
		c.Notes,
		c.Category,
		c.IsActive,
		c.Archived,
	)
	if err != nil {
		return fmt.Errorf("%w: preauth insert: %v", repository.ErrUnavailable, err)
	}
	return nil
}

func scanContractor(row rowScanner) (*preauth.Contractor, error) {
	var (
		c      preauth.Contractor
		plates sql.NullString
	)
	err := row.Scan(
		&c.ID,
		&c.CreatedAt,
		&c.Name,
		&c.Company,
		&c.ContactNumber,
		&plates,
		&c.Notes,
		&c.Category,
		&c.IsActive,
		&c.Archived,
	)
	if err != nil {
		return nil, err
	}
	if c.KnownLicensePlates, err = unmarshalStrings(plates); err != nil {
		return nil, fmt.Errorf("decoding plates: %w", err)
	}
	return &c, nil
}
