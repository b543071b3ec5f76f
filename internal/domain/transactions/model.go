package transactions

import "time"

type Category string

const (
	CategoryRevenue Category = "Revenue"
	CategoryExpense Category = "Expense"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryRevenue, CategoryExpense}

func (c Category) Valid() bool {
	switch c {
	case CategoryRevenue, CategoryExpense:
		return true
	}
	return false
}

type Status string

const (
	StatusPaid      Status = "Paid"
	StatusPending   Status = "Pending"
	StatusFailed    Status = "Failed"
	StatusCancelled Status = "Cancelled"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPaid, StatusPending, StatusFailed, StatusCancelled}

func (s Status) Valid() bool {
	switch s {
	case StatusPaid, StatusPending, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

const DefaultUserProfile = "https://thispersondoesnotexist.com/"

type Transaction struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string    `gorm:"index;not null" json:"user_id"`
	Date        time.Time `gorm:"not null" json:"date"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Category    Category  `gorm:"type:text;not null" json:"category"`
	Status      Status    `gorm:"type:text;not null" json:"status"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	UserProfile string    `gorm:"type:text;not null" json:"user_profile"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Filter narrows a user's transactions. Nil fields are not applied.
type Filter struct {
	Category *Category
	Status   *Status
	From     *time.Time
	To       *time.Time
}

type SortField string

const (
	SortByDate     SortField = "date"
	SortByAmount   SortField = "amount"
	SortByCategory SortField = "category"
	SortByStatus   SortField = "status"
)

func (f SortField) Valid() bool {
	switch f {
	case SortByDate, SortByAmount, SortByCategory, SortByStatus:
		return true
	}
	return false
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type ListFilter struct {
	Filter
	SortBy    SortField
	SortOrder SortOrder
	Page      int
	Limit     int
}

type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

type Page struct {
	Transactions []Transaction `json:"transactions"`
	Pagination   Pagination    `json:"pagination"`
}

type CreateInput struct {
	UserID      string
	Date        *time.Time
	Amount      float64
	Category    Category
	Status      Status
	Description *string
}

// UpdateInput carries a partial update; nil fields keep their stored value.
type UpdateInput struct {
	ID          int64
	UserID      string
	Date        *time.Time
	Amount      *float64
	Category    *Category
	Status      *Status
	Description *string
}
