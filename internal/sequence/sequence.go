// Package sequence derives the human-readable document numbers used by
// complaints and service requests: PREFIX{YYYY}{MM}{4-digit-seq}, unique
// per entity type per calendar month.
//
// The format is part of the observable contract (UI, exports) and must be
// preserved bit-for-bit. Uniqueness is owned by the storage constraint, not
// application logic: callers derive a candidate inside the insert
// transaction and retry once on a unique violation.
package sequence

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Document number prefixes.
const (
	PrefixComplaint = "CMP"
	PrefixService   = "SRV"
)

const uniqueViolationCode = "23505"

// Format renders the document number for the given month scope.
func Format(prefix string, t time.Time, seq int) string {
	return fmt.Sprintf("%s%04d%02d%04d", prefix, t.Year(), int(t.Month()), seq)
}

// Parse splits a document number into its scope and sequence. The prefix is
// whatever precedes the 10 digit tail.
func Parse(number string) (prefix string, year int, month time.Month, seq int, err error) {
	if len(number) < 11 {
		return "", 0, 0, 0, fmt.Errorf("sequence: malformed number %q", number)
	}
	digits := number[len(number)-10:]
	prefix = number[:len(number)-10]
	y, err := strconv.Atoi(digits[0:4])
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("sequence: malformed number %q", number)
	}
	m, err := strconv.Atoi(digits[4:6])
	if err != nil || m < 1 || m > 12 {
		return "", 0, 0, 0, fmt.Errorf("sequence: malformed number %q", number)
	}
	s, err := strconv.Atoi(digits[6:10])
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("sequence: malformed number %q", number)
	}
	return prefix, y, time.Month(m), s, nil
}

// Next derives the successor of the highest existing number in the current
// month scope. An empty last number starts the month at 1.
func Next(last, prefix string, t time.Time) (string, error) {
	if last == "" {
		return Format(prefix, t, 1), nil
	}
	p, y, m, seq, err := Parse(last)
	if err != nil {
		return "", err
	}
	if p != prefix {
		return "", fmt.Errorf("sequence: prefix mismatch: %q vs %q", p, prefix)
	}
	if y != t.Year() || m != t.Month() {
		// The scope rolled over to a new month; restart the counter.
		return Format(prefix, t, 1), nil
	}
	return Format(prefix, t, seq+1), nil
}

// IsUniqueViolation reports whether the error is a storage-level uniqueness
// conflict, the signal for one bounded retry with a re-derived number.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
