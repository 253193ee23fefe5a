package ledger

import (
	"time"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentsAmounts sums the documents of a charge from the owner's point of
// view, in the local currency.
type DocumentsAmounts struct {
	InvoiceAmount decimal.Decimal `json:"invoice_amount"`
	InvoiceVat    decimal.Decimal `json:"invoice_vat"`
	ReceiptAmount decimal.Decimal `json:"receipt_amount"`
	ReceiptVat    decimal.Decimal `json:"receipt_vat"`
	HasInvoices   bool            `json:"has_invoices"`
	HasReceipts   bool            `json:"has_receipts"`

	// documented amounts per counterparty, uuid.Nil when the document does
	// not name one
	invoicesBy map[uuid.UUID]decimal.Decimal
	receiptsBy map[uuid.UUID]decimal.Decimal
}

// Amount is the documented amount of the charge. Invoices take precedence so
// an invoice and the receipt paying it are not counted twice.
func (a DocumentsAmounts) Amount() decimal.Decimal {
	if a.HasInvoices {
		return a.InvoiceAmount
	}
	return a.ReceiptAmount
}

// AmountsByCounterparty splits Amount by the business each document was
// issued to or received from.
func (a DocumentsAmounts) AmountsByCounterparty() map[uuid.UUID]decimal.Decimal {
	source := a.receiptsBy
	if a.HasInvoices {
		source = a.invoicesBy
	}
	amounts := make(map[uuid.UUID]decimal.Decimal, len(source))
	for counterparty, amount := range source {
		amounts[counterparty] = amount
	}
	return amounts
}

func (a DocumentsAmounts) Vat() decimal.Decimal {
	if a.HasInvoices {
		return a.InvoiceVat
	}
	return a.ReceiptVat
}

func (a DocumentsAmounts) IsEmpty() bool {
	return !a.HasInvoices && !a.HasReceipts
}

// RateFunc returns the rate converting one unit of currency into the local
// currency on date.
type RateFunc func(currency string, date time.Time) (decimal.Decimal, error)

// ComputeDocumentsAmounts applies the canonical sign rule: a credit invoice
// negates, a document whose debtor is the owner negates. VAT is summed
// separately. Proformas and unprocessed documents are ignored.
func ComputeDocumentsAmounts(documents []models.Document, ownerID uuid.UUID, localCurrency string, rate RateFunc) (DocumentsAmounts, error) {
	amounts := DocumentsAmounts{
		InvoiceAmount: decimal.Zero,
		InvoiceVat:    decimal.Zero,
		ReceiptAmount: decimal.Zero,
		ReceiptVat:    decimal.Zero,
		invoicesBy:    map[uuid.UUID]decimal.Decimal{},
		receiptsBy:    map[uuid.UUID]decimal.Decimal{},
	}

	for _, doc := range documents {
		isInvoice, isReceipt := false, false
		switch doc.Type {
		case models.DocumentTypeInvoice, models.DocumentTypeCreditInvoice:
			isInvoice = true
		case models.DocumentTypeReceipt:
			isReceipt = true
		case models.DocumentTypeInvoiceReceipt:
			isInvoice, isReceipt = true, true
		default:
			continue
		}

		factor := decimal.NewFromInt(1)
		if doc.Type == models.DocumentTypeCreditInvoice {
			factor = factor.Neg()
		}
		if doc.DebtorID.Valid && doc.DebtorID.UUID == ownerID {
			factor = factor.Neg()
		}

		total := doc.TotalAmount.Mul(factor)
		vat := doc.VatAmount.Mul(factor)
		if doc.Currency != localCurrency {
			r, err := rate(doc.Currency, doc.Date)
			if err != nil {
				return amounts, err
			}
			total = money.Convert(total, r)
			vat = money.Convert(vat, r)
		}

		counterparty := DocumentCounterparty(doc, ownerID)
		if isInvoice {
			amounts.invoicesBy[counterparty] = amounts.invoicesBy[counterparty].Add(total)
			amounts.HasInvoices = true
			amounts.InvoiceAmount = amounts.InvoiceAmount.Add(total)
			amounts.InvoiceVat = amounts.InvoiceVat.Add(vat)
		}
		if isReceipt {
			amounts.receiptsBy[counterparty] = amounts.receiptsBy[counterparty].Add(total)
			amounts.HasReceipts = true
			amounts.ReceiptAmount = amounts.ReceiptAmount.Add(total)
			amounts.ReceiptVat = amounts.ReceiptVat.Add(vat)
		}
	}
	return amounts, nil
}

// DocumentCounterparty is the side of the document that is not the owner.
// It is uuid.Nil when the document names no other business.
func DocumentCounterparty(doc models.Document, ownerID uuid.UUID) uuid.UUID {
	switch {
	case doc.DebtorID.Valid && doc.DebtorID.UUID == ownerID:
		if doc.CreditorID.Valid {
			return doc.CreditorID.UUID
		}
	case doc.CreditorID.Valid && doc.CreditorID.UUID == ownerID:
		if doc.DebtorID.Valid {
			return doc.DebtorID.UUID
		}
	}
	return uuid.Nil
}
