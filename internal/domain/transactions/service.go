package transactions

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"finance-dashboard-go/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPage       = 1
	DefaultLimit      = 10
	MaxLimit          = 100
	maxDescriptionLen = 500
)

type Service struct {
	repo      Repository
	publisher EventPublisher
	log       logger.Logger
	now       func() time.Time
}

type Option func(*Service)

// WithPublisher announces every successful write through publisher.
func WithPublisher(publisher EventPublisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.publisher = publisher
		}
	}
}

func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: noopPublisher{},
		log:       logger.Discard(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context, userID string, filter ListFilter) (Page, error) {
	filter, err := normalizeListFilter(filter)
	if err != nil {
		return Page{}, err
	}

	var (
		items []Transaction
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.List(gctx, userID, filter)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, userID, filter.Filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return Page{}, err
	}

	if items == nil {
		items = []Transaction{}
	}

	return Page{
		Transactions: items,
		Pagination: Pagination{
			CurrentPage:  filter.Page,
			TotalPages:   int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
			TotalItems:   total,
			ItemsPerPage: filter.Limit,
		},
	}, nil
}

func (s *Service) Get(ctx context.Context, userID string, id int64) (*Transaction, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// FindTransactions returns every transaction of userID matching filter.
func (s *Service) FindTransactions(ctx context.Context, userID string, filter Filter) ([]Transaction, error) {
	items, err := s.repo.Find(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Transaction{}
	}
	return items, nil
}

// Export is FindTransactions that treats an empty result as ErrNoTransactionsToExport.
func (s *Service) Export(ctx context.Context, userID string, filter Filter) ([]Transaction, error) {
	items, err := s.repo.Find(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoTransactionsToExport
	}
	return items, nil
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Transaction, error) {
	if !input.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	description, err := normalizeDescription(input.Description)
	if err != nil {
		return nil, err
	}

	date := s.now().UTC()
	if input.Date != nil {
		date = input.Date.UTC()
	}

	transaction := Transaction{
		UserID:      input.UserID,
		Date:        date,
		Amount:      input.Amount,
		Category:    input.Category,
		Status:      input.Status,
		Description: description,
		UserProfile: DefaultUserProfile,
	}

	if err := s.repo.Create(ctx, &transaction); err != nil {
		return nil, err
	}

	s.publish(ctx, EventCreated, transaction)
	return &transaction, nil
}

func (s *Service) Update(ctx context.Context, input UpdateInput) (*Transaction, error) {
	if input.Category != nil && !input.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	transaction, err := s.repo.GetByID(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Amount != nil {
		transaction.Amount = *input.Amount
	}
	if input.Category != nil {
		transaction.Category = *input.Category
	}
	if input.Status != nil {
		transaction.Status = *input.Status
	}
	if input.Date != nil {
		transaction.Date = input.Date.UTC()
	}
	if input.Description != nil {
		description, err := normalizeDescription(input.Description)
		if err != nil {
			return nil, err
		}
		transaction.Description = description
	}
	transaction.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, transaction); err != nil {
		return nil, err
	}

	s.publish(ctx, EventUpdated, *transaction)
	return transaction, nil
}

func (s *Service) Delete(ctx context.Context, userID string, id int64) error {
	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTransactionNotFound
	}

	s.publish(ctx, EventDeleted, Transaction{ID: id, UserID: userID})
	return nil
}

// publish never fails the write; broker errors are only logged.
func (s *Service) publish(ctx context.Context, eventType EventType, transaction Transaction) {
	event := Event{
		Type:          eventType,
		TransactionID: transaction.ID,
		UserID:        transaction.UserID,
		OccurredAt:    s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.InternalError("transactions.publish: event not delivered", err,
			"type", string(eventType), "transaction_id", transaction.ID, "user_id", transaction.UserID)
	}
}

func normalizeListFilter(filter ListFilter) (ListFilter, error) {
	if filter.Page == 0 {
		filter.Page = DefaultPage
	}
	if filter.Limit == 0 {
		filter.Limit = DefaultLimit
	}
	if filter.Page < 1 || filter.Limit < 1 || filter.Limit > MaxLimit {
		return filter, ErrInvalidPagination
	}

	if filter.SortBy == "" {
		filter.SortBy = SortByDate
	}
	if !filter.SortBy.Valid() {
		return filter, ErrInvalidSort
	}
	switch filter.SortOrder {
	case "":
		filter.SortOrder = SortDesc
	case SortAsc, SortDesc:
	default:
		return filter, ErrInvalidSort
	}

	if filter.Category != nil && !filter.Category.Valid() {
		return filter, ErrInvalidCategory
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return filter, ErrInvalidStatus
	}

	return filter, nil
}

func normalizeDescription(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	description := strings.TrimSpace(*value)
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return nil, ErrDescriptionTooLong
	}
	if description == "" {
		return nil, nil
	}
	return &description, nil
}
