package signin

import "time"

// ApprovalStatus classifies a record's authorization.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalDeclined ApprovalStatus = "declined"
)

// WorkStatus records the state of the work at sign-out time.
type WorkStatus string

const (
	WorkCompleted     WorkStatus = "work_completed"
	WorkIncomplete    WorkStatus = "incomplete"
	WorkWillReturn    WorkStatus = "will_return"
	WorkCancelled     WorkStatus = "cancelled"
	WorkNotApplicable WorkStatus = "not_applicable"
)

// DerivedStatus is the ephemeral display status of a record. It is computed
// from the record and the current instant and never persisted.
type DerivedStatus string

const (
	StatusSignedOut DerivedStatus = "signed_out"
	StatusDeclined  DerivedStatus = "declined"
	StatusOverdue   DerivedStatus = "overdue"
	StatusPending   DerivedStatus = "pending"
	StatusActive    DerivedStatus = "active"
)

// Comment is one entry in a record's general comment thread. Comments are
// append-only by convention but persisted as a single array field on the
// record, so every mutation rewrites the whole array.
type Comment struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
	Important  bool      `json:"is_important"`
}

// SignInRecord is one visitor's dated access entry. The store owns the
// record; this core caches it and mutates it through full-record writes.
type SignInRecord struct {
	ID                        string         `json:"id"`
	CreatedAt                 time.Time      `json:"created_at"`
	PreAuthorizedContractorID string         `json:"pre_authorized_contractor_id,omitempty"`
	Name                      string         `json:"name"`
	Company                   string         `json:"company"`
	ContactNumber             string         `json:"contact_number,omitempty"`
	PurposeOfVisit            string         `json:"purpose_of_visit"`
	NeedsParking              bool           `json:"needs_parking"`
	VehiclesSignedIn          []string       `json:"vehicles_signed_in,omitempty"`
	Keys                      []string       `json:"keys,omitempty"`
	IDProvided                *bool          `json:"id_provided,omitempty"`
	ContractorNotes           string         `json:"contractor_notes,omitempty"`
	IsSignedOut               bool           `json:"is_signed_out"`
	SignOutTime               *time.Time     `json:"sign_out_time,omitempty"`
	ApprovalStatus            ApprovalStatus `json:"approval_status"`
	SecurityApprovalNotes     string         `json:"security_approval_notes,omitempty"`
	SecuritySignOutNotes      string         `json:"security_sign_out_notes,omitempty"`
	WorkStatus                WorkStatus     `json:"work_status,omitempty"`
	WorkDetails               string         `json:"work_details,omitempty"`
	KeysReturned              *bool          `json:"keys_returned,omitempty"`
	KeysNotReturnedReason     string         `json:"keys_not_returned_reason,omitempty"`
	ParkingDurationMinutes    int            `json:"parking_duration_minutes,omitempty"`
	CreatedByUserName         string         `json:"created_by_user_name,omitempty"`
	ApprovedByName            string         `json:"approved_by_name,omitempty"`
	SignedOutByName           string         `json:"signed_out_by_name,omitempty"`
	GeneralComments           []Comment      `json:"general_comments"`
}

// Clone returns a deep copy so callers can mutate without aliasing the
// snapshot's copy.
func (r *SignInRecord) Clone() *SignInRecord {
	out := *r
	if r.VehiclesSignedIn != nil {
		out.VehiclesSignedIn = append([]string(nil), r.VehiclesSignedIn...)
	}
	if r.Keys != nil {
		out.Keys = append([]string(nil), r.Keys...)
	}
	if r.GeneralComments != nil {
		out.GeneralComments = append([]Comment(nil), r.GeneralComments...)
	}
	if r.IDProvided != nil {
		v := *r.IDProvided
		out.IDProvided = &v
	}
	if r.KeysReturned != nil {
		v := *r.KeysReturned
		out.KeysReturned = &v
	}
	if r.SignOutTime != nil {
		t := *r.SignOutTime
		out.SignOutTime = &t
	}
	return &out
}

// Actor identifies the operator performing a workflow action. It is threaded
// explicitly into every call rather than read from process-wide state.
type Actor struct {
	Name        string
	AutoApprove bool
}

// DisplayName falls back to a generic label when the guard profile has no
// name configured.
func (a Actor) DisplayName() string {
	if a.Name == "" {
		return "Security"
	}
	return a.Name
}
