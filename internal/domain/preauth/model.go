package preauth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrValidation is the parent of contractor input failures.
	ErrValidation = errors.New("invalid contractor")

	// ErrMissingContractorField indicates a blank name or company.
	ErrMissingContractorField = fmt.Errorf("%w: name and company are required", ErrValidation)
)

// Contractor is a pre-authorized profile in the building's directory.
// Sign-ins may carry an optional foreign reference to one of these.
type Contractor struct {
	ID                 string    `json:"id"`
	CreatedAt          time.Time `json:"created_at"`
	Name               string    `json:"name"`
	Company            string    `json:"company"`
	ContactNumber      string    `json:"contact_number,omitempty"`
	KnownLicensePlates []string  `json:"known_license_plates,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	Category           string    `json:"category,omitempty"`
	IsActive           bool      `json:"is_active"`
	Archived           bool      `json:"archived"`
}

// ContractorInput describes a new directory profile.
type ContractorInput struct {
	Name               string
	Company            string
	ContactNumber      string
	KnownLicensePlates []string
	Notes              string
	Category           string
}

// NewContractor builds a directory profile from operator input. Name and
// company are required; new profiles start active and unarchived.
func NewContractor(in ContractorInput) (*Contractor, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Company) == "" {
		return nil, ErrMissingContractorField
	}
	return &Contractor{
		ID:                 uuid.NewString(),
		CreatedAt:          time.Now(),
		Name:               in.Name,
		Company:            in.Company,
		ContactNumber:      in.ContactNumber,
		KnownLicensePlates: in.KnownLicensePlates,
		Notes:              in.Notes,
		Category:           in.Category,
		IsActive:           true,
	}, nil
}
