package finance

import (
	"sort"
	"time"
)

// monthLabels in January→December order, matching the chart axis.
var monthLabels = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// AggregateMonthly folds incomes and expenses into exactly 12 ordered
// buckets for the given year. Records with a zero date or a different year
// are excluded silently. Savings is derived per bucket only after both
// sums are finalized, never incrementally.
func AggregateMonthly(incomes, expenses []Transaction, year int) []MonthlyBucket {
	buckets := make([]MonthlyBucket, 12)
	for i := range buckets {
		buckets[i].Month = time.Month(i + 1)
		buckets[i].Label = monthLabels[i]
	}

	for _, tx := range incomes {
		if tx.Date.IsZero() || tx.Date.Year() != year {
			continue
		}
		buckets[int(tx.Date.Month())-1].Income += tx.Amount
	}
	for _, tx := range expenses {
		if tx.Date.IsZero() || tx.Date.Year() != year {
			continue
		}
		buckets[int(tx.Date.Month())-1].Expense += tx.Amount
	}

	for i := range buckets {
		buckets[i].Savings = buckets[i].Income - buckets[i].Expense
	}
	return buckets
}

// AggregateCategories groups expense amounts by category for one month,
// substituting the default label for missing categories, and returns the
// groups sorted by descending total. Tie order is unspecified.
func AggregateCategories(expenses []Transaction, year int, month time.Month) []CategoryBucket {
	totals := make(map[string]float64)
	for _, tx := range expenses {
		if tx.Date.IsZero() || tx.Date.Year() != year || tx.Date.Month() != month {
			continue
		}
		cat := tx.Category
		if cat == "" {
			cat = DefaultExpenseCategory
		}
		totals[cat] += tx.Amount
	}

	buckets := make([]CategoryBucket, 0, len(totals))
	for cat, total := range totals {
		buckets = append(buckets, CategoryBucket{Category: cat, Total: total})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Total > buckets[j].Total
	})
	return buckets
}

// MonthlyTotals sums income and expense amounts for a single month.
// Used to build the insight prompt.
func MonthlyTotals(incomes, expenses []Transaction, year int, month time.Month) (income, expense float64) {
	for _, tx := range incomes {
		if !tx.Date.IsZero() && tx.Date.Year() == year && tx.Date.Month() == month {
			income += tx.Amount
		}
	}
	for _, tx := range expenses {
		if !tx.Date.IsZero() && tx.Date.Year() == year && tx.Date.Month() == month {
			expense += tx.Amount
		}
	}
	return income, expense
}
