package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a monetary entry. TRANSFER is accepted as a
// value but carries no cross-space linking behavior.
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "INCOME"
	TransactionTypeExpense  TransactionType = "EXPENSE"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	}
	return false
}

// Transaction is a dated monetary entry inside a space. UserID duplicates
// the owning space's owner so per-user queries need no join. SpaceID and
// Type are immutable after creation.
type Transaction struct {
	ID              string
	SpaceID         string
	UserID          string
	Type            TransactionType
	Amount          decimal.Decimal
	Description     string
	TransactionDate time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
