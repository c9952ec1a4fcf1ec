package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/conecta/user-api/internal/core/domain"
	"github.com/conecta/user-api/internal/core/ports"
)

// AuthService implements credential checks, login and registration.
type AuthService struct {
	users  ports.UserService
	repo   ports.UserRepository
	tokens *TokenManager
	logger zerolog.Logger
	now    func() time.Time
}

func NewAuthService(users ports.UserService, repo ports.UserRepository, tokens *TokenManager, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		repo:   repo,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// ValidateCredentials fails closed: an unknown email, a missing hash or a
// password mismatch all yield (nil, nil). Only store failures are returned.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("validate credentials: %w", err)
	}
	if user == nil {
		return nil, nil
	}
	if !passwordMatches(user.PasswordHash, password) {
		return nil, nil
	}
	return user.Sanitized(), nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	user, err := s.ValidateCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.logger.Debug().Str("email", domain.NormalizeEmail(email)).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("record last login: %w", err)
	}
	user.LastLoginAt = &now

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return &ports.LoginResult{AccessToken: token, User: user}, nil
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	existing, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	created, err := s.users.Create(ctx, ports.CreateUserInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	})
	if err != nil {
		return nil, err
	}
	return created.Sanitized(), nil
}

// Profile returns the account behind an authenticated identity.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}
