package ledger

import (
	"time"

	"github.com/accounter/ledgerhub.go/db/models"
)

// LockPolicy is the tenant's closed-period configuration.
type LockPolicy struct {
	// LockDate is the last day of the last closed accounting period.
	LockDate *time.Time
}

func LockPolicyFor(settings *models.OwnerSettings) LockPolicy {
	if settings == nil {
		return LockPolicy{}
	}
	return LockPolicy{LockDate: settings.LedgerLockDate}
}

// IsLocked reports whether the ledger of the charge must not be regenerated:
// the charge was explicitly locked, or one of its records falls in a closed
// period.
func IsLocked(charge *models.Charge, existing []models.LedgerRecord, policy LockPolicy) bool {
	if !charge.LockedAt.IsZero() {
		return true
	}
	if policy.LockDate == nil {
		return false
	}
	lockDay := *policy.LockDate
	openFrom := time.Date(lockDay.Year(), lockDay.Month(), lockDay.Day()+1, 0, 0, 0, 0, lockDay.Location())
	for _, record := range existing {
		if record.InvoiceDate.Before(openFrom) || record.ValueDate.Before(openFrom) {
			return true
		}
	}
	return false
}
