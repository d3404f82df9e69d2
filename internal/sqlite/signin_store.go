package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/oakline/gatehouse/internal/domain/signin"
	"github.com/oakline/gatehouse/internal/repository"
)

const signInColumns = `
	id, created_at, pre_authorized_contractor_id, name, company,
	contact_number, purpose_of_visit, needs_parking, vehicles_signed_in,
	keys, id_provided, contractor_notes, is_signed_out, sign_out_time,
	approval_status, security_approval_notes, security_sign_out_notes,
	work_status, work_details, keys_returned, keys_not_returned_reason,
	parking_duration_minutes, created_by_user_name, approved_by_name,
	signed_out_by_name, general_comments`

// SignInStore implements repository.SignInStore over SQLite, with an
// in-process change feed fanning live events out to subscribers.
type SignInStore struct {
	db     *DB
	logger *slog.Logger

	mu      sync.Mutex
	subs    map[int]chan repository.ChangeEvent
	nextSub int
}

// NewSignInStore creates a new SignInStore.
func NewSignInStore(db *DB, logger *slog.Logger) *SignInStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SignInStore{
		db:     db,
		logger: logger,
		subs:   make(map[int]chan repository.ChangeEvent),
	}
}

// BulkFetch returns the most recent records, created_at descending.
func (s *SignInStore) BulkFetch(ctx context.Context, limit int) ([]*signin.SignInRecord, error) {
	query := `SELECT ` + signInColumns + ` FROM sign_ins ORDER BY created_at DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: bulk fetch: %v", repository.ErrUnavailable, err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// Submit writes the complete record and returns the canonical stored copy.
// An unknown id inserts; a known id replaces every mutable column. The
// matching change event goes out to subscribers after the write commits.
func (s *SignInStore) Submit(ctx context.Context, rec *signin.SignInRecord) (*signin.SignInRecord, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM sign_ins WHERE id = ?)`, rec.ID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%w: submit lookup: %v", repository.ErrUnavailable, err)
	}

	vehicles, err := marshalStrings(rec.VehiclesSignedIn)
	if err != nil {
		return nil, fmt.Errorf("encoding vehicles: %w", err)
	}
	keys, err := marshalStrings(rec.Keys)
	if err != nil {
		return nil, fmt.Errorf("encoding keys: %w", err)
	}
	comments, err := json.Marshal(rec.GeneralComments)
	if err != nil {
		return nil, fmt.Errorf("encoding comments: %w", err)
	}
	if rec.GeneralComments == nil {
		comments = []byte("[]")
	}

	if exists {
		query := `
			UPDATE sign_ins SET
				pre_authorized_contractor_id = ?, name = ?, company = ?,
				contact_number = ?, purpose_of_visit = ?, needs_parking = ?,
				vehicles_signed_in = ?, keys = ?, id_provided = ?,
				contractor_notes = ?, is_signed_out = ?, sign_out_time = ?,
				approval_status = ?, security_approval_notes = ?,
				security_sign_out_notes = ?, work_status = ?, work_details = ?,
				keys_returned = ?, keys_not_returned_reason = ?,
				parking_duration_minutes = ?, created_by_user_name = ?,
				approved_by_name = ?, signed_out_by_name = ?, general_comments = ?
			WHERE id = ?`
		_, err = s.db.ExecContext(ctx, query,
			nullableString(rec.PreAuthorizedContractorID),
			rec.Name,
			rec.Company,
			rec.ContactNumber,
			rec.PurposeOfVisit,
			rec.NeedsParking,
			vehicles,
			keys,
			nullableBool(rec.IDProvided),
			rec.ContractorNotes,
			rec.IsSignedOut,
			nullableTime(rec.SignOutTime),
			rec.ApprovalStatus,
			rec.SecurityApprovalNotes,
			rec.SecuritySignOutNotes,
			string(rec.WorkStatus),
			rec.WorkDetails,
			nullableBool(rec.KeysReturned),
			rec.KeysNotReturnedReason,
			rec.ParkingDurationMinutes,
			rec.CreatedByUserName,
			rec.ApprovedByName,
			rec.SignedOutByName,
			string(comments),
			rec.ID,
		)
	} else {
		query := `
			INSERT INTO sign_ins (` + signInColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err = s.db.ExecContext(ctx, query,
			rec.ID,
			rec.CreatedAt,
			nullableString(rec.PreAuthorizedContractorID),
			rec.Name,
			rec.Company,
			rec.ContactNumber,
			rec.PurposeOfVisit,
			rec.NeedsParking,
			vehicles,
			keys,
			nullableBool(rec.IDProvided),
			rec.ContractorNotes,
			rec.IsSignedOut,
			nullableTime(rec.SignOutTime),
			rec.ApprovalStatus,
			rec.SecurityApprovalNotes,
			rec.SecuritySignOutNotes,
			string(rec.WorkStatus),
			rec.WorkDetails,
			nullableBool(rec.KeysReturned),
			rec.KeysNotReturnedReason,
			rec.ParkingDurationMinutes,
			rec.CreatedByUserName,
			rec.ApprovedByName,
			rec.SignedOutByName,
			string(comments),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: submit write: %v", repository.ErrUnavailable, err)
	}

	canonical, err := s.get(ctx, rec.ID)
	if err != nil {
		return nil, err
	}

	kind := repository.ChangeUpdate
	if !exists {
		kind = repository.ChangeInsert
	}
	s.publish(repository.ChangeEvent{Kind: kind, ID: canonical.ID, Record: canonical})

	return canonical, nil
}

// Delete removes a record and emits a delete event. The workflow core never
// deletes; this exists for administrative cleanup.
func (s *SignInStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sign_ins WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete: %v", repository.ErrUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	s.publish(repository.ChangeEvent{Kind: repository.ChangeDelete, ID: id})
	return nil
}

// Query runs a direct predicate query against the full record set, bypassing
// any cache cap. Used for on-demand history lookups.
func (s *SignInStore) Query(ctx context.Context, opts repository.QueryOptions) ([]*signin.SignInRecord, error) {
	query := `SELECT ` + signInColumns + ` FROM sign_ins WHERE 1=1`
	var args []any
	if opts.Name != "" {
		query += ` AND LOWER(name) LIKE '%' || LOWER(?) || '%'`
		args = append(args, opts.Name)
	}
	if opts.Company != "" {
		query += ` AND LOWER(company) LIKE '%' || LOWER(?) || '%'`
		args = append(args, opts.Company)
	}
	query += ` ORDER BY created_at DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", repository.ErrUnavailable, err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// SubscribeChanges opens a live change stream. The returned dispose func
// unregisters the subscriber and closes the channel; it is idempotent, and
// the context's cancellation triggers it as well.
func (s *SignInStore) SubscribeChanges(ctx context.Context) (<-chan repository.ChangeEvent, func(), error) {
	ch := make(chan repository.ChangeEvent, 256)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	dispose := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}

	go func() {
		<-ctx.Done()
		dispose()
	}()

	return ch, dispose, nil
}

func (s *SignInStore) publish(ev repository.ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sub := range s.subs {
		select {
		case sub <- ev:
		default:
			s.logger.Warn("change subscriber lagging, dropping event",
				"subscriber", id, "kind", ev.Kind, "record", ev.ID)
		}
	}
}

func (s *SignInStore) get(ctx context.Context, id string) (*signin.SignInRecord, error) {
	query := `SELECT ` + signInColumns + ` FROM sign_ins WHERE id = ?`
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get: %v", repository.ErrUnavailable, err)
	}
	return rec, nil
}
