package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/conecta/user-api/internal/core/domain"
	"github.com/conecta/user-api/internal/core/ports"
	"github.com/conecta/user-api/internal/pkg/config"
)

// SeedUser is a demo account created or refreshed by Seed.
type SeedUser struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// DemoUsers returns the admin and regular demo accounts.
func DemoUsers(cfg config.SeedConfig) []SeedUser {
	return []SeedUser{
		{Name: "Admin", Email: "admin@example.com", Password: cfg.AdminPassword, Role: domain.RoleAdmin},
		{Name: "Demo User", Email: "user@example.com", Password: cfg.UserPassword, Role: domain.RoleUser},
	}
}

// Seed upserts each account: missing users are created, existing ones get
// their name, password and role reset.
func Seed(ctx context.Context, users ports.UserService, accounts []SeedUser, log zerolog.Logger) error {
	for _, acc := range accounts {
		existing, err := users.FindByEmail(ctx, acc.Email)
		if err != nil {
			return fmt.Errorf("seed %s: %w", acc.Email, err)
		}

		if existing == nil {
			if _, err := users.Create(ctx, ports.CreateUserInput{
				Name:     acc.Name,
				Email:    acc.Email,
				Password: acc.Password,
				Role:     acc.Role,
			}); err != nil {
				return fmt.Errorf("seed %s: %w", acc.Email, err)
			}
			log.Info().Str("email", acc.Email).Str("role", string(acc.Role)).Msg("seed user created")
			continue
		}

		name, password, role := acc.Name, acc.Password, acc.Role
		if _, err := users.Update(ctx, existing.ID, ports.UpdateUserInput{
			Name:     &name,
			Password: &password,
			Role:     &role,
		}); err != nil {
			return fmt.Errorf("seed %s: %w", acc.Email, err)
		}
		log.Info().Str("email", acc.Email).Msg("seed user refreshed")
	}
	return nil
}
