package analytics

import (
	"context"
	"time"

	"finance-dashboard-go/internal/domain/transactions"
)

// TransactionFinder is the read side of the transaction store.
type TransactionFinder interface {
	FindTransactions(ctx context.Context, userID string, filter transactions.Filter) ([]transactions.Transaction, error)
}

type Service struct {
	finder TransactionFinder
	loc    *time.Location
	now    func() time.Time
}

func NewService(finder TransactionFinder, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		finder: finder,
		loc:    loc,
		now:    time.Now,
	}
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// Analytics recomputes the result from the store on every call. Store
// errors are returned unchanged.
func (s *Service) Analytics(ctx context.Context, userID string, query Query) (Result, error) {
	resolution := NewResolver(s.now, s.loc).Resolve(query)

	items, err := s.finder.FindTransactions(ctx, userID, resolution.Filter)
	if err != nil {
		return Result{}, err
	}

	return Aggregate(items, resolution.BucketKey, s.loc), nil
}
