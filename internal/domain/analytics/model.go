package analytics

import "finance-dashboard-go/internal/domain/transactions"

type BucketKey string

const (
	BucketDay   BucketKey = "day"
	BucketWeek  BucketKey = "week"
	BucketMonth BucketKey = "month"
)

type Summary struct {
	TotalRevenue     float64 `json:"totalRevenue"`
	TotalExpenses    float64 `json:"totalExpenses"`
	NetIncome        float64 `json:"netIncome"`
	TransactionCount int     `json:"transactionCount"`
}

type SeriesPoint struct {
	BucketLabel string  `json:"bucketLabel"`
	Revenue     float64 `json:"revenue"`
	Expenses    float64 `json:"expenses"`
}

// Result is recomputed on every request and never stored.
// Breakdown keys are present only for values that occur.
type Result struct {
	Summary           Summary                       `json:"summary"`
	StatusBreakdown   map[transactions.Status]int   `json:"statusBreakdown"`
	CategoryBreakdown map[transactions.Category]int `json:"categoryBreakdown"`
	BucketKey         BucketKey                     `json:"bucketKey"`
	Series            []SeriesPoint                 `json:"series"`
}
