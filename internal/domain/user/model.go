package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID       string    `gorm:"uniqueIndex;not null" json:"user_id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"not null" json:"name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	// UserID is generated when empty.
	UserID string
}

type ProfileUpdate struct {
	Name  *string
	Email *string
}
