package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conecta/user-api/internal/core/domain"
	"github.com/conecta/user-api/internal/core/ports"
)

var base = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func mustCreate(t *testing.T, r *UserRepository, name, email string, role domain.Role, createdAt time.Time) *domain.User {
	t.Helper()
	u, err := r.Create(context.Background(), &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	})
	require.NoError(t, err)
	return u
}

func names(users []*domain.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Name
	}
	return out
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()

	created := mustCreate(t, r, "Alice", "alice@example.com", domain.RoleUser, base)
	require.NotEmpty(t, created.ID)

	byID, err := r.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	byEmail, err := r.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = r.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = r.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	r := NewUserRepository()
	created := mustCreate(t, r, "Alice", "alice@example.com", domain.RoleUser, base)

	created.Name = "Mallory"
	stored, err := r.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.Name)
}

func TestUserRepository_UniqueEmail(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	alice := mustCreate(t, r, "Alice", "alice@example.com", domain.RoleUser, base)
	bob := mustCreate(t, r, "Bob", "bob@example.com", domain.RoleUser, base)

	_, err := r.Create(ctx, &domain.User{Name: "Other", Email: "alice@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	bob.Email = alice.Email
	_, err = r.Update(ctx, bob)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUserRepository_ConcurrentCreateSameEmail(t *testing.T) {
	r := NewUserRepository()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Create(context.Background(), &domain.User{Name: "Racer", Email: "race@example.com"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	}
	assert.Equal(t, 1, succeeded)
}

func TestUserRepository_UpdateReleasesOldEmail(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	alice := mustCreate(t, r, "Alice", "alice@example.com", domain.RoleUser, base)

	alice.Email = "alice.smith@example.com"
	_, err := r.Update(ctx, alice)
	require.NoError(t, err)

	_, err = r.FindByEmail(ctx, "alice@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	mustCreate(t, r, "New Alice", "alice@example.com", domain.RoleUser, base)
}

func TestUserRepository_List_FilterSortPaginate(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	mustCreate(t, r, "Carol", "carol@example.com", domain.RoleAdmin, base.Add(1*time.Hour))
	mustCreate(t, r, "alice", "alice@example.com", domain.RoleUser, base.Add(2*time.Hour))
	mustCreate(t, r, "Bob", "bob@example.com", domain.RoleUser, base.Add(3*time.Hour))
	mustCreate(t, r, "Alicia", "alicia@example.com", domain.RoleUser, base.Add(4*time.Hour))

	users, total, err := r.List(ctx, ports.ListUsersFilter{SortBy: ports.SortByCreatedAt, Order: ports.OrderDesc})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Equal(t, []string{"Alicia", "Bob", "alice", "Carol"}, names(users))

	users, total, err = r.List(ctx, ports.ListUsersFilter{Role: domain.RoleUser, SortBy: ports.SortByEmail, Order: ports.OrderAsc})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []string{"alice", "Alicia", "Bob"}, names(users))

	users, total, err = r.List(ctx, ports.ListUsersFilter{Search: "ALI", SortBy: ports.SortByCreatedAt, Order: ports.OrderAsc})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []string{"alice", "Alicia"}, names(users))

	users, total, err = r.List(ctx, ports.ListUsersFilter{SortBy: ports.SortByCreatedAt, Order: ports.OrderAsc, Offset: 2, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Equal(t, []string{"Bob"}, names(users))

	users, total, err = r.List(ctx, ports.ListUsersFilter{SortBy: ports.SortByCreatedAt, Order: ports.OrderAsc, Offset: 10, Limit: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Empty(t, users)
}

func TestUserRepository_ListInactive(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	now := base.Add(90 * 24 * time.Hour)
	cutoff := now.Add(-domain.InactivityWindow)

	mustCreate(t, r, "Never", "never@example.com", domain.RoleUser, base.Add(time.Hour))
	mustCreate(t, r, "NeverOlder", "never-older@example.com", domain.RoleUser, base)
	stale := mustCreate(t, r, "Stale", "stale@example.com", domain.RoleUser, base)
	staler := mustCreate(t, r, "Staler", "staler@example.com", domain.RoleUser, base)
	active := mustCreate(t, r, "Active", "active@example.com", domain.RoleUser, base)

	require.NoError(t, r.TouchLastLogin(ctx, stale.ID, now.Add(-40*24*time.Hour)))
	require.NoError(t, r.TouchLastLogin(ctx, staler.ID, now.Add(-60*24*time.Hour)))
	require.NoError(t, r.TouchLastLogin(ctx, active.ID, now.Add(-24*time.Hour)))

	users, err := r.ListInactive(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, []string{"NeverOlder", "Never", "Staler", "Stale"}, names(users))
}

func TestUserRepository_DeleteAndTouch(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	alice := mustCreate(t, r, "Alice", "alice@example.com", domain.RoleUser, base)

	require.NoError(t, r.Delete(ctx, alice.ID))
	assert.ErrorIs(t, r.Delete(ctx, alice.ID), domain.ErrUserNotFound)
	assert.ErrorIs(t, r.TouchLastLogin(ctx, alice.ID, base), domain.ErrUserNotFound)

	_, err := r.FindByEmail(ctx, "alice@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
