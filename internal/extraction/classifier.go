package extraction

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/moneylens/backend/internal/finance"
)

// categoryRule maps merchant keywords to an expense category. Rules are
// checked in order; the first match wins.
type categoryRule struct {
	keywords []string
	category string
}

var expenseRules = []categoryRule{
	{[]string{"zomato", "swiggy"}, "Food"},
	{[]string{"amazon", "flipkart"}, "Shopping"},
	{[]string{"atm", "withdrawal"}, "Cash"},
	{[]string{"rent"}, "Housing"},
	{[]string{"electricity", "bill"}, "Utilities"},
}

// fallbackExpenseCategory is used when no keyword matches.
const fallbackExpenseCategory = "Misc"

var titleCaser = cases.Title(language.English)

// ClassifiedTransaction is a pending transaction ready for user review,
// produced from one extracted statement row.
type ClassifiedTransaction struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Kind        string  `json:"type"`
	Category    string  `json:"category"`
}

// ClassifyCategory resolves an expense category from a statement
// description using case-insensitive substring matching.
func ClassifyCategory(description string) string {
	desc := strings.ToLower(description)
	for _, rule := range expenseRules {
		for _, kw := range rule.keywords {
			if strings.Contains(desc, kw) {
				return rule.category
			}
		}
	}
	return fallbackExpenseCategory
}

// Classify turns a raw extracted row into a reviewed-pending
// transaction. Credits become income with the salary category; debits
// get a keyword-derived expense category. Amounts are normalised to
// absolute values since statement formats disagree on sign.
func Classify(raw RawTransaction) ClassifiedTransaction {
	tx := ClassifiedTransaction{
		Date:        raw.Date,
		Description: cleanDescription(raw.Description),
		Amount:      math.Abs(raw.Amount),
	}
	if raw.IsDebit {
		tx.Kind = string(finance.KindExpense)
		tx.Category = ClassifyCategory(raw.Description)
	} else {
		tx.Kind = string(finance.KindIncome)
		tx.Category = finance.DefaultIncomeCategory
	}
	return tx
}

// ClassifyAll classifies each extracted row and tallies the statement's
// income and expense totals.
func ClassifyAll(raws []RawTransaction) (txs []ClassifiedTransaction, income, expense float64) {
	txs = make([]ClassifiedTransaction, 0, len(raws))
	for _, raw := range raws {
		tx := Classify(raw)
		txs = append(txs, tx)
		if tx.Kind == string(finance.KindIncome) {
			income += tx.Amount
		} else {
			expense += tx.Amount
		}
	}
	return txs, income, expense
}

// ResolveDate re-validates a pending transaction's date at save time.
// Statement rows carry dates as free text; anything unparseable falls
// back to the moment of saving.
func ResolveDate(raw string) time.Time {
	if t, ok := finance.ParseDateString(raw); ok {
		return t
	}
	return time.Now()
}

// cleanDescription tidies shouty bank-statement text into something
// presentable on the dashboard.
func cleanDescription(desc string) string {
	desc = strings.Join(strings.Fields(desc), " ")
	if desc == strings.ToUpper(desc) && len(desc) > 3 {
		desc = titleCaser.String(strings.ToLower(desc))
	}
	return desc
}
