package httpapi

import (
	"net/http"
	"time"

	"github.com/oakline/gatehouse/internal/dashboard"
	"github.com/oakline/gatehouse/internal/domain/preauth"
	"github.com/oakline/gatehouse/internal/domain/signin"
)

type createRequest struct {
	PreAuthorizedContractorID string   `json:"pre_authorized_contractor_id"`
	Name                      string   `json:"name"`
	Company                   string   `json:"company"`
	ContactNumber             string   `json:"contact_number"`
	PurposeOfVisit            string   `json:"purpose_of_visit"`
	NeedsParking              bool     `json:"needs_parking"`
	JustParking               bool     `json:"just_parking"`
	VehiclesSignedIn          []string `json:"vehicles_signed_in"`
	Keys                      []string `json:"keys"`
	IDProvided                *bool    `json:"id_provided"`
	ContractorNotes           string   `json:"contractor_notes"`
	ParkingDurationMinutes    int      `json:"parking_duration_minutes"`
}

func (r createRequest) toDomain() signin.CreateRequest {
	return signin.CreateRequest{
		PreAuthorizedContractorID: r.PreAuthorizedContractorID,
		Name:                      r.Name,
		Company:                   r.Company,
		ContactNumber:             r.ContactNumber,
		PurposeOfVisit:            r.PurposeOfVisit,
		NeedsParking:              r.NeedsParking,
		JustParking:               r.JustParking,
		VehiclesSignedIn:          r.VehiclesSignedIn,
		Keys:                      r.Keys,
		IDProvided:                r.IDProvided,
		ContractorNotes:           r.ContractorNotes,
		ParkingDurationMinutes:    r.ParkingDurationMinutes,
	}
}

type notesRequest struct {
	Notes string `json:"notes"`
}

type signOutRequest struct {
	WorkStatus            string `json:"work_status"`
	WorkDetails           string `json:"work_details"`
	KeysReturned          *bool  `json:"keys_returned"`
	KeysNotReturnedReason string `json:"keys_not_returned_reason"`
	Notes                 string `json:"notes"`
}

type commentRequest struct {
	Text      string `json:"text"`
	Important bool   `json:"important"`
}

type contractorRequest struct {
	Name               string   `json:"name"`
	Company            string   `json:"company"`
	ContactNumber      string   `json:"contact_number"`
	KnownLicensePlates []string `json:"known_license_plates"`
	Notes              string   `json:"notes"`
	Category           string   `json:"category"`
}

func (r contractorRequest) toDomain() preauth.ContractorInput {
	return preauth.ContractorInput{
		Name:               r.Name,
		Company:            r.Company,
		ContactNumber:      r.ContactNumber,
		KnownLicensePlates: r.KnownLicensePlates,
		Notes:              r.Notes,
		Category:           r.Category,
	}
}

// entryDTO is a record plus its derived, request-time displays.
type entryDTO struct {
	*signin.SignInRecord
	Status    signin.DerivedStatus `json:"status"`
	Elapsed   string               `json:"elapsed"`
	Countdown *countdownDTO        `json:"countdown,omitempty"`
}

type countdownDTO struct {
	Remaining string `json:"remaining"`
	Overdue   bool   `json:"overdue"`
}

func toEntryDTO(rec *signin.SignInRecord, now time.Time) entryDTO {
	dto := entryDTO{
		SignInRecord: rec,
		Status:       signin.Status(rec, now),
		Elapsed:      signin.Elapsed(rec.CreatedAt, now),
	}
	if rec.ParkingDurationMinutes > 0 && !rec.IsSignedOut {
		cd := signin.CountdownAt(rec.CreatedAt, rec.ParkingDurationMinutes, now)
		dto.Countdown = &countdownDTO{Remaining: cd.Remaining, Overdue: cd.Overdue}
	}
	return dto
}

type groupDTO struct {
	Label   string     `json:"label"`
	Day     string     `json:"day"`
	Entries []entryDTO `json:"entries"`
}

type listResponse struct {
	Total   int        `json:"total"`
	Matched int        `json:"matched"`
	Keys    []string   `json:"keys"`
	Groups  []groupDTO `json:"groups"`
}

func toGroupDTOs(groups []dashboard.Group, now time.Time) []groupDTO {
	out := make([]groupDTO, 0, len(groups))
	for _, g := range groups {
		entries := make([]entryDTO, 0, len(g.Entries))
		for _, rec := range g.Entries {
			entries = append(entries, toEntryDTO(rec, now))
		}
		out = append(out, groupDTO{
			Label:   g.Label,
			Day:     g.Day.Format("2006-01-02"),
			Entries: entries,
		})
	}
	return out
}

// filterFromQuery maps dashboard query parameters onto a FilterSpec.
func filterFromQuery(r *http.Request) (dashboard.FilterSpec, error) {
	q := r.URL.Query()
	spec := dashboard.DefaultFilter()

	if v := q.Get("q"); v != "" {
		spec.Query = v
	}
	switch v := q.Get("range"); v {
	case "", "today":
		spec.DateRange = dashboard.RangeToday
	case "last7":
		spec.DateRange = dashboard.RangeLast7
	case "all":
		spec.DateRange = dashboard.RangeAll
	case "custom":
		spec.DateRange = dashboard.RangeCustom
		start, err := time.ParseInLocation("2006-01-02", q.Get("start"), time.Local)
		if err != nil {
			return spec, errBadQuery
		}
		end, err := time.ParseInLocation("2006-01-02", q.Get("end"), time.Local)
		if err != nil {
			return spec, errBadQuery
		}
		spec.CustomStart = start
		spec.CustomEnd = end
	default:
		return spec, errBadQuery
	}
	switch v := q.Get("status"); v {
	case "":
	case "all":
		spec.SignInStatus = dashboard.SignInAll
	case "active":
		spec.SignInStatus = dashboard.SignInActive
	case "signed_out":
		spec.SignInStatus = dashboard.SignInSignedOut
	default:
		return spec, errBadQuery
	}
	switch v := q.Get("approval"); v {
	case "", "all":
		spec.ApprovalStatus = dashboard.ApprovalAll
	case "pending":
		spec.ApprovalStatus = dashboard.ApprovalPending
	case "approved":
		spec.ApprovalStatus = dashboard.ApprovalApproved
	case "declined":
		spec.ApprovalStatus = dashboard.ApprovalDeclined
	default:
		return spec, errBadQuery
	}
	spec.KeyFilter = q.Get("key")
	spec.ParkingOnly = q.Get("parking") == "true"

	return spec, nil
}
