package transactions

import "context"

type Repository interface {
	List(ctx context.Context, userID string, filter ListFilter) ([]Transaction, error)
	Count(ctx context.Context, userID string, filter Filter) (int64, error)
	Find(ctx context.Context, userID string, filter Filter) ([]Transaction, error)
	GetByID(ctx context.Context, userID string, id int64) (*Transaction, error)
	Create(ctx context.Context, transaction *Transaction) error
	Update(ctx context.Context, transaction *Transaction) error
	Delete(ctx context.Context, userID string, id int64) (bool, error)
}
