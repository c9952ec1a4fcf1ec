package ports

import (
	"context"

	"github.com/conecta/user-api/internal/core/domain"
)

// RegisterInput is the self-service registration payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role // empty defaults to domain.RoleUser
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	AccessToken string
	User        *domain.User
}

type AuthService interface {
	ValidateCredentials(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
}

// TokenParser verifies a session token and returns the identity it carries.
type TokenParser interface {
	ParseToken(token string) (*domain.Identity, error)
}

// UserLookup resolves the current state of a token's subject.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
