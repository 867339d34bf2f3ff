package store

// convert.go maps Go values to pgtype values and back.
//
// All to* functions return pgtype values with Valid=false for empty input so
// the column is stored as NULL.

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// toPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func toPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// toPgInt4Ptr converts an optional int to pgtype.Int4. Values outside the
// int32 range are an error rather than a silent truncation.
func toPgInt4Ptr(i *int) (pgtype.Int4, error) {
	if i == nil {
		return pgtype.Int4{Valid: false}, nil
	}
	if *i < math.MinInt32 || *i > math.MaxInt32 {
		return pgtype.Int4{}, fmt.Errorf("value %d out of int4 range", *i)
	}
	return pgtype.Int4{Int32: int32(*i), Valid: true}, nil
}

// intPtr converts pgtype.Int4 back to an optional int.
func intPtr(v pgtype.Int4) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int32)
	return &n
}

// toPgUUID converts a string to pgtype.UUID.
// Returns invalid if the string is empty or not a valid UUID.
func toPgUUID(s string) pgtype.UUID {
	if s == "" {
		return pgtype.UUID{Valid: false}
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}
}

// pgUUIDString converts a pgtype.UUID to its string representation.
// Returns empty string if the UUID is invalid.
func pgUUIDString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}

// toPgTimestamptz converts t to pgtype.Timestamptz; the zero time is NULL.
func toPgTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}
