package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 6
	userIDPrefix   = "user_"
	userIDLen      = 9
)

type Service struct {
	repo       Repository
	cache      Cache
	cacheTTL   time.Duration
	now        func() time.Time
	bcryptCost int
}

type Option func(*Service)

// WithCache serves GetByUserID from cache for ttl. Every request resolves
// its bearer token through GetByUserID.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(s *Service) {
		if cache != nil && ttl > 0 {
			s.cache = cache
			s.cacheTTL = ttl
		}
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		cache:      noopCache{},
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if len(input.Password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		userID = newUserID()
	}

	now := s.now().UTC()
	user := User{
		UserID:       userID,
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// Authenticate checks credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (*User, error) {
	if cached, ok := s.cache.GetByUserID(userID); ok {
		return cached, nil
	}

	user, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.SetByUserID(userID, user, s.cacheTTL)
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*User, error) {
	user, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
		user.Name = name
	}
	if update.Email != nil {
		email, err := normalizeEmail(*update.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			existing, err := s.repo.GetByEmail(ctx, email)
			if err == nil && existing.UserID != user.UserID {
				return nil, ErrEmailTaken
			}
			if err != nil && !errors.Is(err, ErrUserNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	user.UpdatedAt = s.now().UTC()

	s.cache.DeleteByUserID(userID)
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Seed replaces each given account, matching on user id or email.
func (s *Service) Seed(ctx context.Context, inputs []RegisterInput) ([]User, error) {
	created := make([]User, 0, len(inputs))
	for _, input := range inputs {
		email, err := normalizeEmail(input.Email)
		if err != nil {
			return created, err
		}
		// The row matched by email may carry a different id than input.
		existing, err := s.repo.GetByEmail(ctx, email)
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return created, fmt.Errorf("look up %s: %w", email, err)
		}
		if err := s.repo.DeleteByUserIDOrEmail(ctx, input.UserID, email); err != nil {
			return created, fmt.Errorf("remove %s: %w", email, err)
		}
		if existing != nil {
			s.cache.DeleteByUserID(existing.UserID)
		}
		if input.UserID != "" {
			s.cache.DeleteByUserID(input.UserID)
		}
		user, err := s.Register(ctx, input)
		if err != nil {
			return created, fmt.Errorf("create %s: %w", email, err)
		}
		created = append(created, *user)
	}
	return created, nil
}

// DefaultSeedUsers are the demo accounts user_001 through user_004.
func DefaultSeedUsers() []RegisterInput {
	return []RegisterInput{
		{Email: "user1@example.com", Password: "password1", Name: "User One", UserID: "user_001"},
		{Email: "user2@example.com", Password: "password2", Name: "User Two", UserID: "user_002"},
		{Email: "user3@example.com", Password: "password3", Name: "User Three", UserID: "user_003"},
		{Email: "user4@example.com", Password: "password4", Name: "User Four", UserID: "user_004"},
	}
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func newUserID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return userIDPrefix + id[:userIDLen]
}
