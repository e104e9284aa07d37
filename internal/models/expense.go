package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maticai/matic/internal/constants"
)

// Expense is a purchase header with optional line items.
type Expense struct {
	ID            string          `json:"id" db:"id"`
	UserID        string          `json:"user_id" db:"user_id"`
	Store         string          `json:"store" db:"store"`
	Date          string          `json:"date" db:"date"` // YYYY-MM-DD
	Total         decimal.Decimal `json:"total" db:"total"`
	PaymentMethod string          `json:"payment_method,omitempty" db:"payment_method"`
	ReceiptPath   string          `json:"receipt_path,omitempty" db:"receipt_path"`
	// Confidence is the receipt parser's plausibility score in [0,1].
	Confidence float64       `json:"confidence" db:"confidence"`
	Items      []ExpenseItem `json:"items,omitempty" db:"-"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
}

// ExpenseItem is one receipt line.
type ExpenseItem struct {
	ID          string          `json:"id" db:"id"`
	ExpenseID   string          `json:"expense_id" db:"expense_id"`
	ProductName string          `json:"product_name" db:"product_name"`
	Quantity    string          `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price" db:"total_price"`
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Store) == "" {
		return fmt.Errorf("expense store is required")
	}
	if _, err := time.Parse(constants.DateFormat, e.Date); err != nil {
		return fmt.Errorf("invalid expense date %q (expected YYYY-MM-DD)", e.Date)
	}
	if e.Total.IsNegative() {
		return fmt.Errorf("expense total must not be negative")
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		return fmt.Errorf("confidence %.2f out of range [0,1]", e.Confidence)
	}
	for _, it := range e.Items {
		if strings.TrimSpace(it.ProductName) == "" {
			return fmt.Errorf("expense item product name is required")
		}
	}
	return nil
}

// ItemsTotal sums the line item totals.
func (e Expense) ItemsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range e.Items {
		sum = sum.Add(it.TotalPrice)
	}
	return sum
}

// ClampConfidence limits a parser-reported confidence to [0,1].
func ClampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
