package sequence

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func march(day int) time.Time {
	return time.Date(2026, time.March, day, 10, 0, 0, 0, time.UTC)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "CMP2026030001", Format(PrefixComplaint, march(1), 1))
	assert.Equal(t, "SRV2026031042", Format(PrefixService, march(15), 1042))
}

func TestParseRoundTrip(t *testing.T) {
	number := Format(PrefixService, march(3), 7)
	prefix, year, month, seq, err := Parse(number)
	require.NoError(t, err)
	assert.Equal(t, PrefixService, prefix)
	assert.Equal(t, 2026, year)
	assert.Equal(t, time.March, month)
	assert.Equal(t, 7, seq)
}

func TestParseMalformed(t *testing.T) {
	for _, number := range []string{"", "CMP", "CMP20260x0001", "CMP2026130001"} {
		_, _, _, _, err := Parse(number)
		assert.Error(t, err, "number=%q", number)
	}
}

func TestNextEmptyStartsAtOne(t *testing.T) {
	got, err := Next("", PrefixComplaint, march(1))
	require.NoError(t, err)
	assert.Equal(t, "CMP2026030001", got)
}

func TestNextIncrementsWithinMonth(t *testing.T) {
	got, err := Next("CMP2026030041", PrefixComplaint, march(20))
	require.NoError(t, err)
	assert.Equal(t, "CMP2026030042", got)
}

func TestNextRestartsOnMonthRollover(t *testing.T) {
	got, err := Next("SRV2026029999", PrefixService, march(1))
	require.NoError(t, err)
	assert.Equal(t, "SRV2026030001", got)
}

func TestNextPrefixMismatch(t *testing.T) {
	_, err := Next("CMP2026030001", PrefixService, march(1))
	assert.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", unique)))

	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("plain failure")))
	assert.False(t, IsUniqueViolation(nil))
}
