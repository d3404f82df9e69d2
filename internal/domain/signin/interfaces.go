package signin

import "context"

// Store submits full-record writes to the external record store and returns
// the canonical stored record.
type Store interface {
	Submit(ctx context.Context, rec *SignInRecord) (*SignInRecord, error)
}

// Snapshot is the bounded in-memory cache the service reads records from and
// merges canonical write results back into.
type Snapshot interface {
	Get(id string) (*SignInRecord, bool)
	Put(rec *SignInRecord)
}
