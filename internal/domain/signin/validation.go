package signin

import "strings"

// ValidateCreateInput validates fields required to create a sign-in.
func ValidateCreateInput(req CreateRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return ErrMissingRequiredField
	}
	if strings.TrimSpace(req.Company) == "" {
		return ErrMissingRequiredField
	}
	if strings.TrimSpace(req.PurposeOfVisit) == "" {
		return ErrMissingRequiredField
	}
	if req.JustParking && req.ParkingDurationMinutes <= 0 {
		return ErrMissingParkingDuration
	}
	return nil
}

// ValidateApproval checks that a record can still be approved or declined.
// Approval status moves one way out of pending.
func ValidateApproval(rec *SignInRecord) error {
	if rec.ApprovalStatus != ApprovalPending {
		return ErrInvalidTransition
	}
	return nil
}

// ValidateDecline requires non-empty notes on top of the approval precondition.
func ValidateDecline(rec *SignInRecord, notes string) error {
	if err := ValidateApproval(rec); err != nil {
		return err
	}
	if strings.TrimSpace(notes) == "" {
		return ErrMissingDeclineNotes
	}
	return nil
}

// ValidateSignOut checks the sign-out preconditions and required fields.
// Sign-out is permitted exactly once, from approved only.
func ValidateSignOut(rec *SignInRecord, req SignOutRequest) error {
	if rec.ApprovalStatus != ApprovalApproved || rec.IsSignedOut {
		return ErrInvalidTransition
	}
	if req.WorkStatus == "" {
		return ErrMissingWorkStatus
	}
	if len(rec.Keys) > 0 && req.KeysReturned != nil && !*req.KeysReturned {
		if strings.TrimSpace(req.KeysNotReturnedReason) == "" {
			return ErrMissingKeysReason
		}
	}
	return nil
}

// ValidateComment requires non-blank text after trimming.
func ValidateComment(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyComment
	}
	return nil
}
