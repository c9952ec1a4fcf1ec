package ports

import (
	"context"

	"github.com/conecta/user-api/internal/core/domain"
)

// CreateUserInput carries the data for a new user.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UpdateUserInput is a partial patch: nil fields are left unchanged.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *domain.Role
}

// ListUsersInput carries the raw list query. Zero values select defaults.
type ListUsersInput struct {
	Role   domain.Role
	SortBy SortField
	Order  SortOrder
	Search string
	Page   int // 1-based; 0 together with Limit 0 disables pagination
	Limit  int
}

// ListUsersResult is returned by List and ListInactive.
// Page and Limit are zero when the result is not paginated.
type ListUsersResult struct {
	Data  []*domain.User
	Total int64
	Page  int
	Limit int
}

type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail returns (nil, nil) when no user owns the address.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, input ListUsersInput) (*ListUsersResult, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	Remove(ctx context.Context, id string) error
	ListInactive(ctx context.Context) (*ListUsersResult, error)
}
