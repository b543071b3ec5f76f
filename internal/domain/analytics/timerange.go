package analytics

import (
	"strings"
	"time"

	"finance-dashboard-go/internal/domain/transactions"
)

type TimeRange string

const (
	TimeRangeAll         TimeRange = "all"
	TimeRangeMonthly     TimeRange = "monthly"
	TimeRangeLast30Days  TimeRange = "last30days"
	TimeRangeSelectRange TimeRange = "selectrange"
	// TimeRangeCustom covers any unrecognized specifier. It resolves like
	// TimeRangeSelectRange.
	TimeRangeCustom TimeRange = "custom"
)

const lookbackDays = 30

// ParseTimeRange maps a raw specifier to its kind. An empty value selects
// TimeRangeLast30Days. Unknown values return TimeRangeCustom together with
// ErrInvalidTimeRange; callers decide whether to reject or fall through.
func ParseTimeRange(raw string) (TimeRange, error) {
	switch value := TimeRange(strings.TrimSpace(raw)); value {
	case "":
		return TimeRangeLast30Days, nil
	case TimeRangeAll, TimeRangeMonthly, TimeRangeLast30Days, TimeRangeSelectRange:
		return value, nil
	default:
		return TimeRangeCustom, ErrInvalidTimeRange
	}
}

type Query struct {
	TimeRange TimeRange
	StartDate *time.Time
	EndDate   *time.Time
	Category  *transactions.Category
	Status    *transactions.Status
}

type Resolution struct {
	Filter    transactions.Filter
	BucketKey BucketKey
}

type Resolver struct {
	now func() time.Time
	loc *time.Location
}

func NewResolver(now func() time.Time, loc *time.Location) Resolver {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return Resolver{now: now, loc: loc}
}

// Resolve turns a query into a store filter and the bucket granularity.
// StartDate and EndDate only apply to select and custom ranges.
func (r Resolver) Resolve(query Query) Resolution {
	filter := transactions.Filter{
		Category: query.Category,
		Status:   query.Status,
	}

	switch query.TimeRange {
	case TimeRangeAll:
		return Resolution{Filter: filter, BucketKey: BucketDay}
	case TimeRangeMonthly:
		return Resolution{Filter: filter, BucketKey: BucketMonth}
	case TimeRangeLast30Days, "":
		from := startOfDay(r.now().In(r.loc).AddDate(0, 0, -lookbackDays))
		filter.From = &from
		return Resolution{Filter: filter, BucketKey: BucketDay}
	default:
		filter.From = query.StartDate
		filter.To = query.EndDate
		return Resolution{Filter: filter, BucketKey: BucketWeek}
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
