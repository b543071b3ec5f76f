package transactions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "finance-dashboard-go/internal/domain/transactions"
)

var columns = []string{"id", "user_id", "date", "amount", "category", "status", "description", "user_profile", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewPostgres(gormDB), mock
}

func TestFindAppliesFilters(t *testing.T) {
	// Given: a store holding one matching expense
	repo, mock := newMockRepo(t)
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(columns).
		AddRow(1, "user_001", date, -40.0, "Expense", "Paid", nil, domain.DefaultUserProfile, date, date)

	category := domain.CategoryExpense
	status := domain.StatusPaid
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE user_id = \$1 AND category = \$2 AND status = \$3 AND date >= \$4 ORDER BY date desc, id desc`).
		WithArgs("user_001", category, status, from).
		WillReturnRows(rows)

	// When: finding with category, status and lower bound
	items, err := repo.Find(context.Background(), "user_001", domain.Filter{Category: &category, Status: &status, From: &from})

	// Then: the row is mapped back into the domain model
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, domain.CategoryExpense, items[0].Category)
	assert.Equal(t, -40.0, items[0].Amount)
	assert.Nil(t, items[0].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCount(t *testing.T) {
	repo, mock := newMockRepo(t)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "transactions" WHERE user_id = \$1 AND date <= \$2`).
		WithArgs("user_001", to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	total, err := repo.Count(context.Background(), "user_001", domain.Filter{To: &to})
	require.NoError(t, err)
	assert.Equal(t, int64(42), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrdersAndPaginates(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE user_id = \$1 ORDER BY "amount",id desc LIMIT`).
		WillReturnRows(sqlmock.NewRows(columns))

	items, err := repo.List(context.Background(), "user_001", domain.ListFilter{
		SortBy:    domain.SortByAmount,
		SortOrder: domain.SortAsc,
		Page:      2,
		Limit:     10,
	})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE user_id = \$1 AND id = \$2`).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), "user_001", 99)
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReturnsID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(17))

	transaction := domain.Transaction{
		UserID:      "user_001",
		Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Amount:      100,
		Category:    domain.CategoryRevenue,
		Status:      domain.StatusPaid,
		UserProfile: domain.DefaultUserProfile,
	}
	require.NoError(t, repo.Create(context.Background(), &transaction))
	assert.Equal(t, int64(17), transaction.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE "transactions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.Transaction{ID: 5, UserID: "user_001"})
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM "transactions" WHERE user_id = \$1 AND id = \$2`).
		WithArgs("user_001", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "transactions"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), "user_001", 5)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(context.Background(), "user_001", 6)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreErrorPropagates(t *testing.T) {
	repo, mock := newMockRepo(t)
	storeErr := errors.New("connection reset by peer")

	mock.ExpectQuery(`SELECT \* FROM "transactions"`).WillReturnError(storeErr)

	_, err := repo.Find(context.Background(), "user_001", domain.Filter{})
	assert.ErrorIs(t, err, storeErr)
}
