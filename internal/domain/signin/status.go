package signin

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Status computes the display status of a record at the given instant.
// Precedence: signed_out > declined > overdue > pending > active. A pending
// record with an elapsed parking countdown displays as overdue, not pending.
// Pure function; callers recompute on every refresh tick.
func Status(rec *SignInRecord, now time.Time) DerivedStatus {
	if rec.IsSignedOut {
		return StatusSignedOut
	}
	if rec.ApprovalStatus == ApprovalDeclined {
		return StatusDeclined
	}
	if rec.ParkingDurationMinutes > 0 {
		if cd := CountdownAt(rec.CreatedAt, rec.ParkingDurationMinutes, now); cd.Overdue {
			return StatusOverdue
		}
	}
	if rec.ApprovalStatus == ApprovalPending {
		return StatusPending
	}
	return StatusActive
}

// Elapsed returns a humanized duration since start, clamped to non-negative.
func Elapsed(start, now time.Time) string {
	if now.Before(start) {
		now = start
	}
	return strings.TrimSpace(humanize.RelTime(start, now, "", ""))
}

// Countdown describes the remaining (or exceeded) parking allowance.
type Countdown struct {
	Remaining string
	Overdue   bool
}

// CountdownAt computes the parking countdown for a record created at start
// with the given allowance. Overdue iff now is past start plus the allowance.
func CountdownAt(start time.Time, durationMinutes int, now time.Time) Countdown {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	if now.After(end) {
		return Countdown{
			Remaining: strings.TrimSpace(humanize.RelTime(end, now, "", "")),
			Overdue:   true,
		}
	}
	return Countdown{
		Remaining: strings.TrimSpace(humanize.RelTime(now, end, "", "")),
		Overdue:   false,
	}
}
