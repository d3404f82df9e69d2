package repository

import (
	"context"

	"github.com/oakline/gatehouse/internal/domain/preauth"
	"github.com/oakline/gatehouse/internal/domain/signin"
)

// QueryOptions narrows a direct store query. Direct queries bypass the
// capped snapshot; callers use them for on-demand history lookups.
type QueryOptions struct {
	Name    string
	Company string
	Limit   int
}

// SignInStore is the boundary contract with the external record store.
type SignInStore interface {
	// BulkFetch returns the most recent records ordered created_at
	// descending, capped at limit.
	BulkFetch(ctx context.Context, limit int) ([]*signin.SignInRecord, error)

	// SubscribeChanges opens a live change stream. The returned dispose
	// func must be invoked exactly once when the consuming scope ends;
	// after it returns the channel is closed and no further events arrive.
	SubscribeChanges(ctx context.Context) (<-chan ChangeEvent, func(), error)

	// Submit writes the complete record (insert when the id is unknown,
	// replace otherwise) and returns the canonical stored record.
	Submit(ctx context.Context, rec *signin.SignInRecord) (*signin.SignInRecord, error)

	// Query runs a direct predicate query against the full record set.
	Query(ctx context.Context, opts QueryOptions) ([]*signin.SignInRecord, error)

	// Delete removes a record outright and emits a delete change event.
	// Workflow transitions never delete; this is the administrative path.
	Delete(ctx context.Context, id string) error
}

// PreAuthStore looks up pre-authorized contractor profiles.
type PreAuthStore interface {
	// Query matches active, non-archived contractors whose name or company
	// contains the term, case-insensitively.
	Query(ctx context.Context, term string, limit int) ([]preauth.Contractor, error)

	// Get returns one contractor by id.
	Get(ctx context.Context, id string) (*preauth.Contractor, error)

	// Insert adds a contractor profile to the directory.
	Insert(ctx context.Context, c *preauth.Contractor) error
}
