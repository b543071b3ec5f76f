package transactions

import "errors"

var (
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrInvalidCategory        = errors.New("category must be either Revenue or Expense")
	ErrInvalidStatus          = errors.New("status must be one of: Paid, Pending, Failed, Cancelled")
	ErrDescriptionTooLong     = errors.New("description must be less than 500 characters")
	ErrInvalidSort            = errors.New("sort by must be one of: date, amount, category, status")
	ErrInvalidPagination      = errors.New("page must be positive and limit between 1 and 100")
	ErrNoTransactionsToExport = errors.New("no transactions found for export")
)
