// Package types holds the expense-tracker domain entities shared by the
// store and HTTP layers. The structs are storage-agnostic.
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// User owns records and at most one account.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Category groups records. Names are unique.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Record is a single expense. Creating a record debits the owner's account.
type Record struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	CategoryID int64           `json:"category_id"`
	CreatedAt  time.Time       `json:"created_at"`
	Amount     decimal.Decimal `json:"amount"`
}

// Account tracks a user's balance. One per user, created lazily on first
// access or deposit.
type Account struct {
	ID      int64           `json:"id"`
	UserID  int64           `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
}

// Money normalizes an amount to the two-decimal scale used for deposits,
// record amounts, and balances.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MoneyFromFloat converts a JSON number into a two-decimal amount.
func MoneyFromFloat(f float64) decimal.Decimal {
	return Money(decimal.NewFromFloat(f))
}
