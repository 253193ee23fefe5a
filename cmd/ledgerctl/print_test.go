package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/ledger"
	"github.com/accounter/ledgerhub.go/lib/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1,234,567.89", formatAmount(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "-100.00", formatAmount(decimal.NewFromInt(-100)))
}

func TestPrintResultCommonError(t *testing.T) {
	var out bytes.Buffer
	err := printResult(&out, &service.GenerateResult{CommonError: ledger.NewCommonError("charge %s not found", "x")})
	require.NoError(t, err)
	assert.Equal(t, "error: charge x not found\n", out.String())
}

func TestPrintResultRecords(t *testing.T) {
	account := uuid.New()
	var out bytes.Buffer
	err := printResult(&out, &service.GenerateResult{Ledger: &service.GeneratedLedger{
		Charge:        service.ChargeRef{ID: uuid.New(), Type: models.ChargeTypeBalance},
		GeneratorKind: "balance",
		Persisted:     true,
		Balance:       ledger.BalanceReport{IsBalanced: true},
		Records: []models.LedgerRecord{{
			InvoiceDate:        time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			DebitAccountID1:    uuid.NullUUID{UUID: account, Valid: true},
			LocalDebitAmount1:  decimal.NewFromInt(1500),
			LocalCreditAmount1: decimal.NewFromInt(1500),
			Currency:           "ILS",
			Description:        "Balance charge",
		}},
	}})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "generated by balance, stored")
	assert.Contains(t, out.String(), account.String())
	assert.Contains(t, out.String(), "unassigned")
	assert.Contains(t, out.String(), "1,500.00")
}
