package signin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service implements the sign-in workflow transitions. Every transition
// validates synchronously with zero side effects on failure, submits the
// complete updated record, and merges the canonical result back into the
// snapshot. On failure the snapshot is left untouched.
type Service struct {
	store  Store
	cache  Snapshot
	logger *slog.Logger
}

// NewService creates a new sign-in service.
func NewService(store Store, cache Snapshot, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, cache: cache, logger: logger}
}

// CreateRequest describes a new sign-in submission.
type CreateRequest struct {
	PreAuthorizedContractorID string
	Name                      string
	Company                   string
	ContactNumber             string
	PurposeOfVisit            string
	NeedsParking              bool
	JustParking               bool
	VehiclesSignedIn          []string
	Keys                      []string
	IDProvided                *bool
	ContractorNotes           string
	ParkingDurationMinutes    int
}

// SignOutRequest describes a sign-out submission.
type SignOutRequest struct {
	WorkStatus            WorkStatus
	WorkDetails           string
	KeysReturned          *bool
	KeysNotReturnedReason string
	Notes                 string
}

// Create submits a new sign-in record. The initial approval status is
// decided by the acting guard's auto-approve preference: approved when the
// preference is on and the guard has a name, else pending.
func (s *Service) Create(ctx context.Context, actor Actor, req CreateRequest) (*SignInRecord, error) {
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}

	now := time.Now()
	rec := &SignInRecord{
		ID:                        uuid.NewString(),
		CreatedAt:                 now,
		PreAuthorizedContractorID: req.PreAuthorizedContractorID,
		Name:                      req.Name,
		Company:                   req.Company,
		ContactNumber:             req.ContactNumber,
		PurposeOfVisit:            req.PurposeOfVisit,
		NeedsParking:              req.NeedsParking,
		VehiclesSignedIn:          req.VehiclesSignedIn,
		Keys:                      req.Keys,
		IDProvided:                req.IDProvided,
		ContractorNotes:           req.ContractorNotes,
		ApprovalStatus:            ApprovalPending,
		CreatedByUserName:         actor.Name,
		GeneralComments:           []Comment{},
	}
	if req.JustParking || req.NeedsParking {
		rec.ParkingDurationMinutes = req.ParkingDurationMinutes
	}
	if actor.AutoApprove && actor.Name != "" {
		rec.ApprovalStatus = ApprovalApproved
		rec.ApprovedByName = actor.Name
	}

	canonical, err := s.store.Submit(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("submitting sign-in: %w", err)
	}
	s.cache.Put(canonical)

	s.logger.Info("sign-in created",
		"id", canonical.ID,
		"approval_status", canonical.ApprovalStatus,
		"created_by", actor.Name)
	return canonical, nil
}

// Approve moves a pending record to approved. Notes are optional and stored
// trimmed.
func (s *Service) Approve(ctx context.Context, actor Actor, id, notes string) (*SignInRecord, error) {
	current, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if err := ValidateApproval(current); err != nil {
		return nil, err
	}

	updated := current.Clone()
	updated.ApprovalStatus = ApprovalApproved
	updated.SecurityApprovalNotes = strings.TrimSpace(notes)
	updated.ApprovedByName = actor.DisplayName()

	return s.submit(ctx, updated, "sign-in approved")
}

// Decline moves a pending record to declined. Notes are required.
func (s *Service) Decline(ctx context.Context, actor Actor, id, notes string) (*SignInRecord, error) {
	current, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if err := ValidateDecline(current, notes); err != nil {
		return nil, err
	}

	updated := current.Clone()
	updated.ApprovalStatus = ApprovalDeclined
	updated.SecurityApprovalNotes = strings.TrimSpace(notes)
	updated.ApprovedByName = actor.DisplayName()

	return s.submit(ctx, updated, "sign-in declined")
}

// SignOut signs an approved record out exactly once, recording the work
// status and key return details.
func (s *Service) SignOut(ctx context.Context, actor Actor, id string, req SignOutRequest) (*SignInRecord, error) {
	current, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if err := ValidateSignOut(current, req); err != nil {
		return nil, err
	}

	now := time.Now()
	updated := current.Clone()
	updated.IsSignedOut = true
	updated.SignOutTime = &now
	updated.WorkStatus = req.WorkStatus
	updated.WorkDetails = req.WorkDetails
	updated.SecuritySignOutNotes = req.Notes
	updated.SignedOutByName = actor.DisplayName()
	if len(current.Keys) > 0 {
		updated.KeysReturned = req.KeysReturned
		if req.KeysReturned != nil && !*req.KeysReturned {
			updated.KeysNotReturnedReason = req.KeysNotReturnedReason
		} else {
			updated.KeysNotReturnedReason = ""
		}
	} else {
		updated.KeysReturned = nil
		updated.KeysNotReturnedReason = ""
	}

	return s.submit(ctx, updated, "sign-in signed out")
}

// AppendComment appends one comment to the record's comment thread and
// writes the whole array back as a single field.
func (s *Service) AppendComment(ctx context.Context, actor Actor, id, text string, important bool) (*SignInRecord, error) {
	current, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if err := ValidateComment(text); err != nil {
		return nil, err
	}

	updated := current.Clone()
	updated.GeneralComments = append(updated.GeneralComments, Comment{
		ID:         uuid.NewString(),
		Text:       text,
		AuthorName: actor.DisplayName(),
		CreatedAt:  time.Now(),
		Important:  important,
	})

	return s.submit(ctx, updated, "comment added")
}

// ToggleImportant flips one comment's important flag, rewriting the whole
// comment array.
func (s *Service) ToggleImportant(ctx context.Context, id, commentID string) (*SignInRecord, error) {
	current, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	updated := current.Clone()
	found := false
	for i := range updated.GeneralComments {
		if updated.GeneralComments[i].ID == commentID {
			updated.GeneralComments[i].Important = !updated.GeneralComments[i].Important
			found = true
			break
		}
	}
	if !found {
		return nil, ErrCommentNotFound
	}

	return s.submit(ctx, updated, "comment importance toggled")
}

func (s *Service) lookup(id string) (*SignInRecord, error) {
	rec, ok := s.cache.Get(id)
	if !ok {
		s.logger.Warn("mutation targets sign-in missing from snapshot", "id", id)
		return nil, ErrStaleReference
	}
	return rec, nil
}

func (s *Service) submit(ctx context.Context, rec *SignInRecord, msg string) (*SignInRecord, error) {
	canonical, err := s.store.Submit(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("submitting sign-in update: %w", err)
	}
	// The store's returned record, not the optimistic local copy, is what
	// lands in the snapshot.
	s.cache.Put(canonical)
	s.logger.Info(msg, "id", canonical.ID)
	return canonical, nil
}
