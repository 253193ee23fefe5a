package main

import (
	"fmt"
	"io"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/service"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const amountFormat = "#,###.##"

func formatAmount(amount decimal.Decimal) string {
	return humanize.FormatFloat(amountFormat, amount.InexactFloat64())
}

func formatAccount(account uuid.NullUUID) string {
	if !account.Valid {
		return "unassigned"
	}
	return account.UUID.String()
}

func printResult(w io.Writer, result *service.GenerateResult) error {
	if result.CommonError != nil {
		_, err := fmt.Fprintf(w, "error: %s\n", result.CommonError.Message)
		return err
	}
	generated := result.Ledger
	fmt.Fprintf(w, "charge %s (%s)", generated.Charge.ID, generated.Charge.Type)
	if generated.GeneratorKind != "" {
		fmt.Fprintf(w, " generated by %s", generated.GeneratorKind)
	}
	if generated.Charge.Locked {
		fmt.Fprint(w, ", locked")
	}
	if generated.Persisted {
		fmt.Fprint(w, ", stored")
	}
	fmt.Fprintln(w)
	for _, record := range generated.Records {
		printRecord(w, record)
	}
	for _, message := range generated.Errors {
		fmt.Fprintf(w, "error: %s\n", message)
	}
	if !generated.Balance.IsBalanced && generated.GeneratorKind != "" {
		_, err := fmt.Fprintf(w, "residual %s\n", formatAmount(generated.Balance.BalanceSum))
		return err
	}
	return nil
}

func printRecord(w io.Writer, record models.LedgerRecord) {
	fmt.Fprintf(w, "  %s  Dr %-36s %14s  Cr %-36s %14s  %s  %s\n",
		record.InvoiceDate.Format("2006-01-02"),
		formatAccount(record.DebitAccountID1), formatAmount(record.LocalDebitAmount1),
		formatAccount(record.CreditAccountID1), formatAmount(record.LocalCreditAmount1),
		record.Currency,
		record.Description,
	)
}
