package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"sign_ins",
		"pre_authorized_contractors",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}

	// Running migrations twice is safe.
	require.NoError(t, db.RunMigrations())
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

// TestSignInsTable verifies the sign_ins table structure and constraints
func TestSignInsTable(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO sign_ins (id, created_at, name, company, purpose_of_visit, approval_status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		"s1", time.Now(), "Dana Fox", "Fox Plumbing", "Regular Maintenance", "pending")
	require.NoError(t, err)

	var name, comments string
	var parking int
	err = db.QueryRowContext(ctx,
		`SELECT name, general_comments, parking_duration_minutes FROM sign_ins WHERE id = ?`,
		"s1").Scan(&name, &comments, &parking)
	require.NoError(t, err)
	require.Equal(t, "Dana Fox", name)
	require.Equal(t, "[]", comments, "comment thread should default to an empty JSON array")
	require.Equal(t, 0, parking)

	// Approval status is constrained to the three workflow states.
	_, err = db.ExecContext(ctx,
		`INSERT INTO sign_ins (id, created_at, name, company, purpose_of_visit, approval_status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		"s2", time.Now(), "Dana Fox", "Fox Plumbing", "Delivery", "maybe")
	require.Error(t, err, "should fail with invalid approval_status")
}

// TestPreAuthorizedContractorsTable verifies the directory table structure
func TestPreAuthorizedContractorsTable(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO pre_authorized_contractors (id, created_at, name, company)
		 VALUES (?, ?, ?, ?)`,
		"c1", time.Now(), "Marcus Webb", "Webb Electrical")
	require.NoError(t, err)

	var name string
	var isActive, archived int
	err = db.QueryRowContext(ctx,
		`SELECT name, is_active, archived FROM pre_authorized_contractors WHERE id = ?`,
		"c1").Scan(&name, &isActive, &archived)
	require.NoError(t, err)
	require.Equal(t, "Marcus Webb", name)
	require.Equal(t, 1, isActive, "contractors should default to active")
	require.Equal(t, 0, archived)
}
