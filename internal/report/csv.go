package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"finance-dashboard-go/internal/domain/analytics"
	"finance-dashboard-go/internal/domain/transactions"
)

const transactionDateLayout = "2006-01-02 15:04:05"

var transactionsHeader = []string{"ID", "Date", "Amount", "Category", "Status", "Description"}

// WriteAnalyticsCSV renders result as four labeled sections separated by a
// blank line. Fields are not quoted; every value is numeric, an enum or a
// bucket label.
func WriteAnalyticsCSV(w io.Writer, result analytics.Result) error {
	bw := bufio.NewWriter(w)

	fmt.Fprint(bw, "Summary\n")
	fmt.Fprintf(bw, "Total Revenue,%s\n", formatAmount(result.Summary.TotalRevenue))
	fmt.Fprintf(bw, "Total Expenses,%s\n", formatAmount(result.Summary.TotalExpenses))
	fmt.Fprintf(bw, "Net Income,%s\n", formatAmount(result.Summary.NetIncome))
	fmt.Fprintf(bw, "Transaction Count,%d\n\n", result.Summary.TransactionCount)

	fmt.Fprint(bw, "Status Breakdown\n")
	for _, status := range orderedKeys(result.StatusBreakdown, transactions.Statuses) {
		fmt.Fprintf(bw, "%s,%d\n", status, result.StatusBreakdown[status])
	}
	fmt.Fprint(bw, "\n")

	fmt.Fprint(bw, "Category Breakdown\n")
	for _, category := range orderedKeys(result.CategoryBreakdown, transactions.Categories) {
		fmt.Fprintf(bw, "%s,%d\n", category, result.CategoryBreakdown[category])
	}
	fmt.Fprint(bw, "\n")

	fmt.Fprint(bw, "Chart Data\n")
	fmt.Fprintf(bw, "%s,Revenue,Expenses\n", result.BucketKey)
	for _, point := range result.Series {
		fmt.Fprintf(bw, "%s,%s,%s\n", point.BucketLabel, formatAmount(point.Revenue), formatAmount(point.Expenses))
	}

	return bw.Flush()
}

// WriteTransactionsCSV writes one quoted row per transaction with dates in loc.
func WriteTransactionsCSV(w io.Writer, items []transactions.Transaction, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(transactionsHeader); err != nil {
		return err
	}

	for _, item := range items {
		description := ""
		if item.Description != nil {
			description = *item.Description
		}
		record := []string{
			strconv.FormatInt(item.ID, 10),
			item.Date.In(loc).Format(transactionDateLayout),
			formatAmount(item.Amount),
			string(item.Category),
			string(item.Status),
			description,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func AnalyticsFilename(userID string, at time.Time) string {
	return fmt.Sprintf("analytics_report_%s_%d.csv", userID, at.UnixMilli())
}

func TransactionsFilename(userID string, at time.Time) string {
	return fmt.Sprintf("transactions_%s_%d.csv", userID, at.UnixMilli())
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// orderedKeys returns the known keys present in counts in declaration order,
// followed by any other keys sorted.
func orderedKeys[K ~string](counts map[K]int, known []K) []K {
	keys := make([]K, 0, len(counts))
	seen := make(map[K]bool, len(known))
	for _, key := range known {
		seen[key] = true
		if _, ok := counts[key]; ok {
			keys = append(keys, key)
		}
	}

	var extra []K
	for key := range counts {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })

	return append(keys, extra...)
}
