package signin

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the parent of all field-validation failures. It is
	// always detected before any store call, with zero side effects.
	ErrValidation = errors.New("validation failed")

	// ErrMissingRequiredField indicates a blank required field on creation.
	ErrMissingRequiredField = fmt.Errorf("%w: required field is blank", ErrValidation)
	// ErrMissingParkingDuration indicates a just-parking entry without a duration.
	ErrMissingParkingDuration = fmt.Errorf("%w: parking duration is required", ErrValidation)
	// ErrMissingDeclineNotes indicates a decline without notes.
	ErrMissingDeclineNotes = fmt.Errorf("%w: notes are required when declining", ErrValidation)
	// ErrMissingWorkStatus indicates a sign-out without a work status.
	ErrMissingWorkStatus = fmt.Errorf("%w: work status is required", ErrValidation)
	// ErrMissingKeysReason indicates keys reported unreturned with no reason.
	ErrMissingKeysReason = fmt.Errorf("%w: reason is required when keys are not returned", ErrValidation)
	// ErrEmptyComment indicates a comment blank after trimming.
	ErrEmptyComment = fmt.Errorf("%w: comment text is empty", ErrValidation)

	// ErrInvalidTransition indicates a state-machine precondition violation.
	ErrInvalidTransition = errors.New("invalid sign-in transition")
	// ErrStaleReference indicates a mutation targeting an id absent from the
	// snapshot. Logged, never fatal; local state is left unchanged.
	ErrStaleReference = errors.New("sign-in not present in snapshot")
	// ErrCommentNotFound indicates a comment id absent from the record.
	ErrCommentNotFound = errors.New("comment not found")
)
