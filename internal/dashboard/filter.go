// Package dashboard turns the raw snapshot into the filtered, day-grouped
// view the operator terminals render.
package dashboard

import (
	"sort"
	"strings"
	"time"

	"github.com/oakline/gatehouse/internal/domain/signin"
)

// DateRange selects which calendar window a filter keeps.
type DateRange string

const (
	RangeToday  DateRange = "today"
	RangeLast7  DateRange = "last7"
	RangeCustom DateRange = "custom"
	RangeAll    DateRange = "all"
)

// SignInStatusFilter narrows by sign-out state.
type SignInStatusFilter string

const (
	SignInAll       SignInStatusFilter = "all"
	SignInActive    SignInStatusFilter = "active"
	SignInSignedOut SignInStatusFilter = "signed_out"
)

// ApprovalFilter narrows by approval status.
type ApprovalFilter string

const (
	ApprovalAll      ApprovalFilter = "all"
	ApprovalPending  ApprovalFilter = "pending"
	ApprovalApproved ApprovalFilter = "approved"
	ApprovalDeclined ApprovalFilter = "declined"
)

// FilterSpec composes the dashboard's predicates. Predicates AND together.
type FilterSpec struct {
	Query          string
	DateRange      DateRange
	CustomStart    time.Time
	CustomEnd      time.Time
	SignInStatus   SignInStatusFilter
	ApprovalStatus ApprovalFilter
	KeyFilter      string
	ParkingOnly    bool
}

// DefaultFilter is the view a terminal opens with: today's active entries.
func DefaultFilter() FilterSpec {
	return FilterSpec{
		DateRange:      RangeToday,
		SignInStatus:   SignInActive,
		ApprovalStatus: ApprovalAll,
	}
}

// Apply returns the subset of rows matching the spec. Calendar-day
// predicates resolve in now's location. The filter is stable: output
// preserves input relative order and never re-sorts.
func Apply(rows []*signin.SignInRecord, spec FilterSpec, now time.Time) []*signin.SignInRecord {
	out := make([]*signin.SignInRecord, 0, len(rows))
	for _, rec := range rows {
		if matches(rec, spec, now) {
			out = append(out, rec)
		}
	}
	return out
}

func matches(rec *signin.SignInRecord, spec FilterSpec, now time.Time) bool {
	if q := strings.TrimSpace(spec.Query); q != "" && !matchesQuery(rec, q) {
		return false
	}

	loc := now.Location()
	created := dayOf(rec.CreatedAt, loc)
	switch spec.DateRange {
	case RangeToday:
		if !created.Equal(dayOf(now, loc)) {
			return false
		}
	case RangeLast7:
		if created.Before(dayOf(now.AddDate(0, 0, -7), loc)) {
			return false
		}
	case RangeCustom:
		if created.Before(dayOf(spec.CustomStart, loc)) || created.After(dayOf(spec.CustomEnd, loc)) {
			return false
		}
	}

	switch spec.SignInStatus {
	case SignInActive:
		if rec.IsSignedOut {
			return false
		}
	case SignInSignedOut:
		if !rec.IsSignedOut {
			return false
		}
	}

	if spec.ApprovalStatus != "" && spec.ApprovalStatus != ApprovalAll {
		if string(rec.ApprovalStatus) != string(spec.ApprovalStatus) {
			return false
		}
	}

	if spec.KeyFilter != "" && !hasKey(rec, spec.KeyFilter) {
		return false
	}

	if spec.ParkingOnly && rec.ParkingDurationMinutes <= 0 {
		return false
	}

	return true
}

// matchesQuery searches the concatenation of name, company, contact,
// purpose, and all note fields, case-insensitively.
func matchesQuery(rec *signin.SignInRecord, query string) bool {
	target := strings.Join([]string{
		rec.Name,
		rec.Company,
		rec.ContactNumber,
		rec.PurposeOfVisit,
		rec.ContractorNotes,
		rec.SecurityApprovalNotes,
		rec.SecuritySignOutNotes,
	}, " ")
	return strings.Contains(strings.ToLower(target), strings.ToLower(query))
}

func hasKey(rec *signin.SignInRecord, key string) bool {
	for _, k := range rec.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// dayOf truncates an instant to its calendar day in loc.
func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// AllKeys returns the sorted distinct key labels across rows, for building
// the key filter choices.
func AllKeys(rows []*signin.SignInRecord) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, rec := range rows {
		for _, k := range rec.Keys {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
