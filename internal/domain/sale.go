package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale records a completed pickup transaction. Sales are created exactly once
// by converting a hold and are never mutated afterward.
type Sale struct {
	ID            string
	HoldID        string
	ProductIDs    []string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	SaleDate      time.Time
	PaymentMethod string
	TransactionID string
	FinalPrice    decimal.Decimal
	AdminNotes    string
}
