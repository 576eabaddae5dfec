package finance

import (
	"fmt"
	"strings"
)

// savingsCSVHeader matches the column order the dashboard export uses.
const savingsCSVHeader = "Month,Income,Expenses,Savings"

// SavingsCSV renders the monthly savings table as CSV with two-decimal
// amounts. The header line is always present, even for empty input.
func SavingsCSV(buckets []MonthlyBucket) string {
	var b strings.Builder
	b.WriteString(savingsCSVHeader)
	b.WriteByte('\n')
	for _, bucket := range buckets {
		fmt.Fprintf(&b, "%s,%.2f,%.2f,%.2f\n",
			bucket.Label, bucket.Income, bucket.Expense, bucket.Savings)
	}
	return b.String()
}

// SavingsCSVFilename returns the download filename for a year's export.
func SavingsCSVFilename(year int) string {
	return fmt.Sprintf("Savings_Trend_%d.csv", year)
}
