// Package entryid formats and parses the human-readable business identifiers
// carried by ledger entries, distinct from the internal row UUIDs.
package entryid

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mbmkongo/caisse_management_app/internal/apperrors"
)

// Prefixes observed per originating module.
const (
	PrefixComptabilite = "ACHAM"   // accounting entries
	PrefixLogistique   = "LOG"     // logistics entries
	PrefixTransfer     = "TRF"     // cashier -> supervisor transfer pairs
	PrefixOpening      = "OPENING" // supervisor-assigned opening balances
)

// Transfer pair suffixes. The OUT side debits the cashier, the IN side
// credits the receiving account; both share the same timestamp stem.
const (
	SuffixOut = "OUT"
	SuffixIn  = "IN"
)

const dayFormat = "20060102"

// Daily builds a daily counter-based entry ID: <PREFIX>-<YYYYMMDD>-<NNN>.
// The counter is zero-padded to three digits but not truncated beyond 999.
func Daily(prefix string, day time.Time, counter int64) string {
	return fmt.Sprintf("%s-%s-%03d", prefix, day.UTC().Format(dayFormat), counter)
}

// TransferPair builds the matched OUT/IN identifiers for a transfer created
// at the given instant.
func TransferPair(at time.Time) (out string, in string) {
	stem := fmt.Sprintf("%s-%d", PrefixTransfer, at.UnixMilli())
	return stem + "-" + SuffixOut, stem + "-" + SuffixIn
}

// Opening builds the identifier of a supervisor-assigned opening balance
// entry. Opening entries are timestamp-suffixed and carry no daily counter.
func Opening(at time.Time) string {
	return fmt.Sprintf("%s-%d", PrefixOpening, at.UnixMilli())
}

// ParseDaily splits a daily entry ID back into prefix, day and counter.
// Returns ErrValidation when the value is not a daily-counter identifier.
func ParseDaily(entryID string) (prefix string, day time.Time, counter int64, err error) {
	parts := strings.Split(entryID, "-")
	if len(parts) != 3 {
		return "", time.Time{}, 0, fmt.Errorf("%w: malformed entry ID %q", apperrors.ErrValidation, entryID)
	}
	day, err = time.ParseInLocation(dayFormat, parts[1], time.UTC)
	if err != nil {
		return "", time.Time{}, 0, fmt.Errorf("%w: bad day in entry ID %q", apperrors.ErrValidation, entryID)
	}
	counter, err = strconv.ParseInt(parts[2], 10, 64)
	if err != nil || counter < 1 {
		return "", time.Time{}, 0, fmt.Errorf("%w: bad counter in entry ID %q", apperrors.ErrValidation, entryID)
	}
	return parts[0], day, counter, nil
}
