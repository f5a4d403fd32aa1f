package entryid_test

import (
	"testing"
	"time"

	"github.com/mbmkongo/caisse_management_app/internal/apperrors"
	"github.com/mbmkongo/caisse_management_app/internal/utils/entryid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaily(t *testing.T) {
	day := time.Date(2025, 1, 31, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, "ACHAM-20250131-003", entryid.Daily(entryid.PrefixComptabilite, day, 3))
	assert.Equal(t, "LOG-20250131-001", entryid.Daily(entryid.PrefixLogistique, day, 1))
	// Counters beyond three digits are not truncated.
	assert.Equal(t, "ACHAM-20250131-1042", entryid.Daily(entryid.PrefixComptabilite, day, 1042))
}

func TestDailyUsesUTCDay(t *testing.T) {
	kinshasa := time.FixedZone("WAT", 1*60*60)
	// 00:30 local on March 2nd is still March 1st in UTC.
	local := time.Date(2025, 3, 2, 0, 30, 0, 0, kinshasa)

	assert.Equal(t, "LOG-20250301-002", entryid.Daily(entryid.PrefixLogistique, local, 2))
}

func TestTransferPair(t *testing.T) {
	at := time.UnixMilli(1740826800000)

	out, in := entryid.TransferPair(at)

	assert.Equal(t, "TRF-1740826800000-OUT", out)
	assert.Equal(t, "TRF-1740826800000-IN", in)
}

func TestOpening(t *testing.T) {
	at := time.UnixMilli(1740826800123)

	assert.Equal(t, "OPENING-1740826800123", entryid.Opening(at))
}

func TestParseDailyRoundTrip(t *testing.T) {
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	id := entryid.Daily(entryid.PrefixComptabilite, day, 17)

	prefix, parsedDay, counter, err := entryid.ParseDaily(id)

	require.NoError(t, err)
	assert.Equal(t, entryid.PrefixComptabilite, prefix)
	assert.True(t, parsedDay.Equal(day))
	assert.Equal(t, int64(17), counter)
}

func TestParseDailyRejectsMalformedIDs(t *testing.T) {
	for _, id := range []string{
		"",
		"ACHAM-20250131",
		"ACHAM-2025X131-001",
		"ACHAM-20250131-zero",
		"ACHAM-20250131-000",
		"TRF-1740826800000-OUT-extra",
	} {
		_, _, _, err := entryid.ParseDaily(id)
		assert.ErrorIs(t, err, apperrors.ErrValidation, "id %q", id)
	}
}
