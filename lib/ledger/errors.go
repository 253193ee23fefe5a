package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const CommonErrorKind = "CommonError"

// CommonError is the typed, user-facing failure of a ledger generation. It is
// an expected outcome and is returned as a value, never retried.
type CommonError struct {
	Kind    string `json:"__kind"`
	Message string `json:"message"`
}

func NewCommonError(format string, args ...interface{}) *CommonError {
	return &CommonError{
		Kind:    CommonErrorKind,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *CommonError) Error() string {
	return e.Message
}

// ValidationError is implemented by every domain failure that has to be
// surfaced to the caller verbatim.
type ValidationError interface {
	error
	validation()
}

// AsCommonError turns a domain failure into a CommonError. Any other error is
// an infrastructure failure and reported as not ok.
func AsCommonError(err error) (*CommonError, bool) {
	if err == nil {
		return nil, false
	}
	var commonErr *CommonError
	if errors.As(err, &commonErr) {
		return commonErr, true
	}
	var validationErr ValidationError
	if errors.As(err, &validationErr) {
		return NewCommonError("%s", validationErr.Error()), true
	}
	return nil, false
}

type EmptyInputError struct{}

func (EmptyInputError) Error() string {
	return "charge has no transactions to aggregate"
}

type AllFeesError struct {
	Count int
}

func (e AllFeesError) Error() string {
	return fmt.Sprintf("all %d transactions of the charge are fees, nothing to aggregate", e.Count)
}

type MixedCurrencyError struct {
	Currencies []string
}

func (e MixedCurrencyError) Error() string {
	return fmt.Sprintf("transactions have multiple currencies: %s", strings.Join(e.Currencies, ", "))
}

type MixedCounterpartyError struct {
	BusinessIDs []uuid.UUID
}

func (e MixedCounterpartyError) Error() string {
	ids := make([]string, len(e.BusinessIDs))
	for i, id := range e.BusinessIDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("transactions have multiple counterparties: %s", strings.Join(ids, ", "))
}

type UnsupportedTaxCategoryError struct {
	TaxCategoryID uuid.NullUUID
}

func (e UnsupportedTaxCategoryError) Error() string {
	if !e.TaxCategoryID.Valid {
		return "charge has no tax category, unable to pick a ledger generator"
	}
	return fmt.Sprintf("unsupported tax category %s, no ledger generator is configured for it", e.TaxCategoryID.UUID)
}

type LockedChargeError struct {
	ChargeID uuid.UUID
	LockDate *time.Time
}

func (e LockedChargeError) Error() string {
	if e.LockDate != nil {
		return fmt.Sprintf("charge %s is locked: its ledger belongs to a period closed on %s", e.ChargeID, e.LockDate.Format("2006-01-02"))
	}
	return fmt.Sprintf("charge %s is locked for ledger regeneration", e.ChargeID)
}

type ChargeNotFoundError struct {
	ChargeID uuid.UUID
}

func (e ChargeNotFoundError) Error() string {
	return fmt.Sprintf("charge %s not found", e.ChargeID)
}

type MissingSettingsError struct {
	OwnerID uuid.UUID
}

func (e MissingSettingsError) Error() string {
	return fmt.Sprintf("no accounting settings configured for owner %s", e.OwnerID)
}

type MissingExchangeRateError struct {
	Currency string
	Date     time.Time
}

func (e MissingExchangeRateError) Error() string {
	return fmt.Sprintf("no exchange rate for %s on or before %s", e.Currency, e.Date.Format("2006-01-02"))
}

func (EmptyInputError) validation()             {}
func (AllFeesError) validation()                {}
func (MixedCurrencyError) validation()          {}
func (MixedCounterpartyError) validation()      {}
func (UnsupportedTaxCategoryError) validation() {}
func (LockedChargeError) validation()           {}
func (ChargeNotFoundError) validation()         {}
func (MissingSettingsError) validation()        {}
func (MissingExchangeRateError) validation()    {}
