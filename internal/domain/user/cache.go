package user

import "time"

// Cache holds recently resolved users keyed by user id.
type Cache interface {
	GetByUserID(userID string) (*User, bool)
	SetByUserID(userID string, user *User, ttl time.Duration)
	DeleteByUserID(userID string)
	Clear()
}

type noopCache struct{}

func (noopCache) GetByUserID(string) (*User, bool) {
	return nil, false
}

func (noopCache) SetByUserID(string, *User, time.Duration) {}

func (noopCache) DeleteByUserID(string) {}

func (noopCache) Clear() {}
