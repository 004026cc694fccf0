package inventory

import "time"

// NewLedgerWithClock permite a los tests fijar la hora que ve el ledger.
func NewLedgerWithClock(now func() time.Time) *Ledger {
	return &Ledger{now: now}
}
