package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/conecta/user-api/internal/core/domain"
	"github.com/conecta/user-api/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type UserService struct {
	repo     ports.UserRepository
	logger   zerolog.Logger
	hashCost int
	now      func() time.Time
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{
		repo:     repo,
		logger:   logger,
		hashCost: PasswordCost,
		now:      time.Now,
	}
}

// Create stores a new user after checking email availability and hashing the
// password. The repository's unique constraint remains the final arbiter.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := domain.NormalizeEmail(input.Email)
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}

	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	case email == "":
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	case input.Password == "":
		return nil, fmt.Errorf("%w: password is required", domain.ErrValidation)
	case !role.Valid():
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	existing, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := hashPassword(input.Password, s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrEmailTaken) {
			s.logger.Error().Err(err).Msg("failed to create user")
		}
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user created")
	return created, nil
}

func (s *UserService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrUserNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// FindByEmail returns (nil, nil) when the address is not registered.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, nil
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// List returns users matching the filter. Pagination is applied only when
// the caller asks for a page or a limit.
func (s *UserService) List(ctx context.Context, input ports.ListUsersInput) (*ports.ListUsersResult, error) {
	filter, err := resolveListFilter(input)
	if err != nil {
		return nil, err
	}

	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	result := &ports.ListUsersResult{Data: users, Total: total}
	if filter.Limit > 0 {
		result.Limit = filter.Limit
		result.Page = filter.Offset/filter.Limit + 1
	}
	return result, nil
}

func resolveListFilter(input ports.ListUsersInput) (ports.ListUsersFilter, error) {
	filter := ports.ListUsersFilter{
		Role:   input.Role,
		Search: strings.TrimSpace(input.Search),
		SortBy: input.SortBy,
		Order:  ports.SortOrder(strings.ToUpper(string(input.Order))),
	}

	if filter.Role != "" && !filter.Role.Valid() {
		return filter, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, input.Role)
	}
	if filter.SortBy == "" {
		filter.SortBy = ports.SortByCreatedAt
	}
	if !filter.SortBy.Valid() {
		return filter, fmt.Errorf("%w: cannot sort by %q", domain.ErrValidation, input.SortBy)
	}
	switch filter.Order {
	case "":
		filter.Order = ports.OrderDesc
	case ports.OrderAsc, ports.OrderDesc:
	default:
		return filter, fmt.Errorf("%w: order must be ASC or DESC", domain.ErrValidation)
	}

	if input.Page < 0 || input.Limit < 0 {
		return filter, fmt.Errorf("%w: page and limit must be positive", domain.ErrValidation)
	}
	if input.Page == 0 && input.Limit == 0 {
		return filter, nil
	}

	page := input.Page
	if page == 0 {
		page = 1
	}
	limit := input.Limit
	if limit == 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	filter.Limit = limit
	filter.Offset = (page - 1) * limit
	return filter, nil
}

// Update merges the non-nil fields of input into the stored user.
func (s *UserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
		}
		user.Name = name
	}

	if input.Email != nil {
		email := domain.NormalizeEmail(*input.Email)
		if email == "" {
			return nil, fmt.Errorf("%w: email cannot be empty", domain.ErrValidation)
		}
		if email != user.Email {
			owner, err := s.FindByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if owner != nil && owner.ID != user.ID {
				return nil, domain.ErrEmailTaken
			}
			user.Email = email
		}
	}

	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, *input.Role)
		}
		user.Role = *input.Role
	}

	if input.Password != nil {
		if *input.Password == "" {
			return nil, fmt.Errorf("%w: password cannot be empty", domain.ErrValidation)
		}
		hash, err := hashPassword(*input.Password, s.hashCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", updated.ID).Msg("user updated")
	return updated, nil
}

func (s *UserService) Remove(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrUserNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user removed")
	return nil
}

// ListInactive returns users that have not logged in within
// domain.InactivityWindow, least recently active first.
func (s *UserService) ListInactive(ctx context.Context) (*ports.ListUsersResult, error) {
	cutoff := s.now().UTC().Add(-domain.InactivityWindow)
	users, err := s.repo.ListInactive(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list inactive users: %w", err)
	}
	return &ports.ListUsersResult{Data: users, Total: int64(len(users))}, nil
}
