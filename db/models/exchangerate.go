package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate : Exchange Rate Model
// Historical rate of one unit of Currency in the reporting currency.
type ExchangeRate struct {
	Currency  string          `json:"currency" bun:",pk"`
	Date      time.Time       `json:"date" bun:",pk"`
	Rate      decimal.Decimal `json:"rate" bun:"type:numeric,notnull"`
	CreatedAt time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}
