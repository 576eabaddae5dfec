package finance

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavingsCSV(t *testing.T) {
	buckets := []MonthlyBucket{
		{Month: time.January, Label: "Jan", Income: 1000, Expense: 400, Savings: 600},
	}
	got := SavingsCSV(buckets)
	assert.Equal(t, "Month,Income,Expenses,Savings\nJan,1000.00,400.00,600.00\n", got)
}

func TestSavingsCSVFullYear(t *testing.T) {
	buckets := AggregateMonthly(nil, nil, 2025)
	got := SavingsCSV(buckets)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	require.Len(t, lines, 13)
	assert.Equal(t, "Jan,0.00,0.00,0.00", lines[1])
	assert.Equal(t, "Dec,0.00,0.00,0.00", lines[12])
}

func TestSavingsCSVFilename(t *testing.T) {
	assert.Equal(t, "Savings_Trend_2025.csv", SavingsCSVFilename(2025))
}
