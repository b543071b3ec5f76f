package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"finance-dashboard-go/internal/domain/transactions"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

type bucket struct {
	revenue  float64
	expenses float64
}

// Aggregate summarizes items and buckets them by key, computing calendar
// labels in loc. It never modifies items.
//
// Revenue adds amount as stored while every other category adds abs(amount)
// to expenses. Month buckets are contiguous from the earliest to the latest
// record; day and week buckets exist only where a record falls.
func Aggregate(items []transactions.Transaction, key BucketKey, loc *time.Location) Result {
	if loc == nil {
		loc = time.UTC
	}

	result := Result{
		StatusBreakdown:   make(map[transactions.Status]int),
		CategoryBreakdown: make(map[transactions.Category]int),
		BucketKey:         key,
	}

	buckets := make(map[string]*bucket)
	if key == BucketMonth {
		prefillMonths(buckets, items, loc)
	}

	for _, item := range items {
		revenue, expenses := contribution(item)
		result.Summary.TotalRevenue += revenue
		result.Summary.TotalExpenses += expenses

		result.StatusBreakdown[item.Status]++
		result.CategoryBreakdown[item.Category]++

		label := bucketLabel(item.Date.In(loc), key)
		b, ok := buckets[label]
		if !ok {
			b = &bucket{}
			buckets[label] = b
		}
		b.revenue += revenue
		b.expenses += expenses
	}

	result.Summary.NetIncome = result.Summary.TotalRevenue - result.Summary.TotalExpenses
	result.Summary.TransactionCount = len(items)

	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	result.Series = make([]SeriesPoint, 0, len(labels))
	for _, label := range labels {
		b := buckets[label]
		result.Series = append(result.Series, SeriesPoint{
			BucketLabel: label,
			Revenue:     b.revenue,
			Expenses:    b.expenses,
		})
	}

	return result
}

func contribution(item transactions.Transaction) (float64, float64) {
	if item.Category == transactions.CategoryRevenue {
		return item.Amount, 0
	}
	return 0, math.Abs(item.Amount)
}

func bucketLabel(t time.Time, key BucketKey) string {
	switch key {
	case BucketMonth:
		return t.Format(monthLayout)
	case BucketWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	default:
		return t.Format(dayLayout)
	}
}

func prefillMonths(buckets map[string]*bucket, items []transactions.Transaction, loc *time.Location) {
	if len(items) == 0 {
		return
	}

	first := items[0].Date
	last := items[0].Date
	for _, item := range items[1:] {
		if item.Date.Before(first) {
			first = item.Date
		}
		if item.Date.After(last) {
			last = item.Date
		}
	}

	first = first.In(loc)
	last = last.In(loc)
	end := time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, loc)
	for month := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, loc); !month.After(end); month = month.AddDate(0, 1, 0) {
		buckets[month.Format(monthLayout)] = &bucket{}
	}
}
