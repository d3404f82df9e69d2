package repository

import "github.com/oakline/gatehouse/internal/domain/signin"

// ChangeKind tags a change-stream event.
type ChangeKind string

const (
	ChangeInsert ChangeKind = "insert"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
)

// ChangeEvent is one live change delivered by the store's stream. Events for
// a given id are assumed, not guaranteed, to arrive in causal order; the
// snapshot tolerates gaps by treating unknown-id updates and deletes as
// no-ops.
type ChangeEvent struct {
	Kind   ChangeKind
	ID     string
	Record *signin.SignInRecord
}
