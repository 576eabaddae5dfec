package insight

import (
	"fmt"
	"strings"
	"time"

	"github.com/moneylens/backend/internal/finance"
)

// MonthSummary is the financial snapshot the advice prompt is built from.
type MonthSummary struct {
	Year       int
	Month      time.Month
	Income     float64
	Expense    float64
	Categories []finance.CategoryBucket
}

// Savings is the derived remainder for the month.
func (m MonthSummary) Savings() float64 {
	return m.Income - m.Expense
}

// Label renders the period as "March 2025".
func (m MonthSummary) Label() string {
	return fmt.Sprintf("%s %d", m.Month.String(), m.Year)
}

// BuildPrompt renders the advice prompt for one month of activity. The
// model is asked for short markdown bullets so the response survives
// ParseBullets.
func BuildPrompt(summary MonthSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a personal finance advisor. Analyse the following snapshot for %s.\n\n", summary.Label())
	fmt.Fprintf(&b, "Total income: %.2f\n", summary.Income)
	fmt.Fprintf(&b, "Total expenses: %.2f\n", summary.Expense)
	fmt.Fprintf(&b, "Savings: %.2f\n", summary.Savings())

	if len(summary.Categories) > 0 {
		b.WriteString("\nSpending by category:\n")
		for _, c := range summary.Categories {
			fmt.Fprintf(&b, "- %s: %.2f\n", c.Category, c.Total)
		}
	}

	b.WriteString("\nGive 2-3 short, actionable savings tips for this user. ")
	b.WriteString("Respond with markdown bullet points starting with '*'. No preamble, no closing remarks.")

	return b.String()
}
