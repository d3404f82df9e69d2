package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oakline/gatehouse/internal/domain/signin"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*signin.SignInRecord, error) {
	var (
		rec           signin.SignInRecord
		preAuthorized sql.NullString
		vehicles      sql.NullString
		keys          sql.NullString
		idProvided    sql.NullBool
		signOutTime   sql.NullTime
		workStatus    string
		keysReturned  sql.NullBool
		comments      string
	)

	err := row.Scan(
		&rec.ID,
		&rec.CreatedAt,
		&preAuthorized,
		&rec.Name,
		&rec.Company,
		&rec.ContactNumber,
		&rec.PurposeOfVisit,
		&rec.NeedsParking,
		&vehicles,
		&keys,
		&idProvided,
		&rec.ContractorNotes,
		&rec.IsSignedOut,
		&signOutTime,
		&rec.ApprovalStatus,
		&rec.SecurityApprovalNotes,
		&rec.SecuritySignOutNotes,
		&workStatus,
		&rec.WorkDetails,
		&keysReturned,
		&rec.KeysNotReturnedReason,
		&rec.ParkingDurationMinutes,
		&rec.CreatedByUserName,
		&rec.ApprovedByName,
		&rec.SignedOutByName,
		&comments,
	)
	if err != nil {
		return nil, err
	}

	rec.PreAuthorizedContractorID = preAuthorized.String
	rec.WorkStatus = signin.WorkStatus(workStatus)
	if idProvided.Valid {
		v := idProvided.Bool
		rec.IDProvided = &v
	}
	if keysReturned.Valid {
		v := keysReturned.Bool
		rec.KeysReturned = &v
	}
	if signOutTime.Valid {
		t := signOutTime.Time
		rec.SignOutTime = &t
	}
	if rec.VehiclesSignedIn, err = unmarshalStrings(vehicles); err != nil {
		return nil, fmt.Errorf("decoding vehicles: %w", err)
	}
	if rec.Keys, err = unmarshalStrings(keys); err != nil {
		return nil, fmt.Errorf("decoding keys: %w", err)
	}
	if err := json.Unmarshal([]byte(comments), &rec.GeneralComments); err != nil {
		return nil, fmt.Errorf("decoding comments: %w", err)
	}
	if rec.GeneralComments == nil {
		rec.GeneralComments = []signin.Comment{}
	}

	return &rec, nil
}

func collectRecords(rows *sql.Rows) ([]*signin.SignInRecord, error) {
	var out []*signin.SignInRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func marshalStrings(values []string) (any, error) {
	if values == nil {
		return nil, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func unmarshalStrings(col sql.NullString) ([]string, error) {
	if !col.Valid || col.String == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(col.String), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
