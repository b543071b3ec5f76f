package transactions

import (
	"context"
	"errors"

	domain "finance-dashboard-go/internal/domain/transactions"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, userID string, filter domain.ListFilter) ([]domain.Transaction, error) {
	query := r.scoped(ctx, userID, filter.Filter).
		Order(clause.OrderByColumn{
			Column: clause.Column{Name: string(filter.SortBy)},
			Desc:   filter.SortOrder == domain.SortDesc,
		}).
		Order("id desc").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit)

	var items []domain.Transaction
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) Count(ctx context.Context, userID string, filter domain.Filter) (int64, error) {
	var total int64
	if err := r.scoped(ctx, userID, filter).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PostgresRepository) Find(ctx context.Context, userID string, filter domain.Filter) ([]domain.Transaction, error) {
	var items []domain.Transaction
	if err := r.scoped(ctx, userID, filter).Order("date desc, id desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID string, id int64) (*domain.Transaction, error) {
	var transaction domain.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

func (r *PostgresRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *PostgresRepository) Update(ctx context.Context, transaction *domain.Transaction) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("id = ? AND user_id = ?", transaction.ID, transaction.UserID).
		Updates(map[string]interface{}{
			"date":        transaction.Date,
			"amount":      transaction.Amount,
			"category":    transaction.Category,
			"status":      transaction.Status,
			"description": transaction.Description,
			"updated_at":  transaction.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Transaction{}, "user_id = ? AND id = ?", userID, id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) scoped(ctx context.Context, userID string, filter domain.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&domain.Transaction{}).Where("user_id = ?", userID)
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}
	return query
}
