// Package finance holds the core transaction model and the aggregation
// logic that turns raw transaction documents into chart-ready series.
package finance

import "time"

// Kind distinguishes the two transaction collections.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Collection returns the document-store collection name for this kind.
func (k Kind) Collection() string {
	if k == KindIncome {
		return "incomes"
	}
	return "expenses"
}

// Default category labels applied when a record carries none.
const (
	DefaultExpenseCategory = "Uncategorized"
	DefaultIncomeCategory  = "Salary"
)

// Transaction is a single income or expense record owned by one user.
// Amount is always non-negative; Date is a normalized instant produced at
// the store-read boundary (zero means the stored value was unparseable).
type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Kind        Kind      `json:"kind"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MonthlyBucket is one of the 12 fixed slots produced by AggregateMonthly.
// Savings is derived as Income - Expense after both sums are finalized.
type MonthlyBucket struct {
	Month   time.Month `json:"-"`
	Label   string     `json:"month"`
	Income  float64    `json:"income"`
	Expense float64    `json:"expense"`
	Savings float64    `json:"savings"`
}

// CategoryBucket is a per-category expense total for one month.
type CategoryBucket struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}
