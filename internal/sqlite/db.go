package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations applies the schema. Arrays (vehicles, keys, plates, and the
// comment thread) are stored as JSON text columns and replaced whole on
// every write; there is no per-item persistence.
func (db *DB) RunMigrations() error {
	migration := `
-- Sign-in records
CREATE TABLE IF NOT EXISTS sign_ins (
    id TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL,
    pre_authorized_contractor_id TEXT,
    name TEXT NOT NULL,
    company TEXT NOT NULL,
    contact_number TEXT NOT NULL DEFAULT '',
    purpose_of_visit TEXT NOT NULL,
    needs_parking INTEGER NOT NULL DEFAULT 0,
    vehicles_signed_in TEXT,
    keys TEXT,
    id_provided INTEGER,
    contractor_notes TEXT NOT NULL DEFAULT '',
    is_signed_out INTEGER NOT NULL DEFAULT 0,
    sign_out_time TIMESTAMP,
    approval_status TEXT NOT NULL CHECK(approval_status IN ('pending', 'approved', 'declined')),
    security_approval_notes TEXT NOT NULL DEFAULT '',
    security_sign_out_notes TEXT NOT NULL DEFAULT '',
    work_status TEXT NOT NULL DEFAULT '',
    work_details TEXT NOT NULL DEFAULT '',
    keys_returned INTEGER,
    keys_not_returned_reason TEXT NOT NULL DEFAULT '',
    parking_duration_minutes INTEGER NOT NULL DEFAULT 0,
    created_by_user_name TEXT NOT NULL DEFAULT '',
    approved_by_name TEXT NOT NULL DEFAULT '',
    signed_out_by_name TEXT NOT NULL DEFAULT '',
    general_comments TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_sign_ins_created_at ON sign_ins(created_at);
CREATE INDEX IF NOT EXISTS idx_sign_ins_approval ON sign_ins(approval_status);
CREATE INDEX IF NOT EXISTS idx_sign_ins_signed_out ON sign_ins(is_signed_out);

-- Pre-authorized contractor directory
CREATE TABLE IF NOT EXISTS pre_authorized_contractors (
    id TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL,
    name TEXT NOT NULL,
    company TEXT NOT NULL,
    contact_number TEXT NOT NULL DEFAULT '',
    known_license_plates TEXT,
    notes TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    is_active INTEGER NOT NULL DEFAULT 1,
    archived INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_preauth_name ON pre_authorized_contractors(name);
CREATE INDEX IF NOT EXISTS idx_preauth_company ON pre_authorized_contractors(company);
`
	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
