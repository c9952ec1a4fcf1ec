package ports

import (
	"context"
	"time"

	"github.com/conecta/user-api/internal/core/domain"
)

// SortField names a column users can be ordered by.
type SortField string

const (
	SortByName      SortField = "name"
	SortByEmail     SortField = "email"
	SortByCreatedAt SortField = "createdAt"
)

// Valid reports whether f is a supported sort column.
func (f SortField) Valid() bool {
	switch f {
	case SortByName, SortByEmail, SortByCreatedAt:
		return true
	}
	return false
}

// SortOrder is the direction of a listing.
type SortOrder string

const (
	OrderAsc  SortOrder = "ASC"
	OrderDesc SortOrder = "DESC"
)

// ListUsersFilter carries the resolved query for UserRepository.List.
// The service layer fills defaults, so repositories can trust every field.
type ListUsersFilter struct {
	Role   domain.Role // empty = any role
	Search string      // case-insensitive substring match on name
	SortBy SortField
	Order  SortOrder
	Offset int
	Limit  int // 0 = no limit
}

// UserRepository defines persistence operations for user records.
// Lookups return domain.ErrUserNotFound on absence; writes that collide on
// email return domain.ErrEmailTaken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	// ListInactive returns users whose last login is null or before cutoff,
	// never-logged-in users first, then oldest login first.
	ListInactive(ctx context.Context, cutoff time.Time) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}
