// Package memory provides a process-local user store for development and
// tests. It enforces the same email uniqueness the database stores do.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/conecta/user-api/internal/core/domain"
	"github.com/conecta/user-api/internal/core/ports"
)

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func clone(u *domain.User) *domain.User {
	c := *u
	if u.LastLoginAt != nil {
		ts := *u.LastLoginAt
		c.LastLoginAt = &ts
	}
	return &c
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return nil, domain.ErrEmailTaken
	}

	stored := clone(user)
	stored.ID = uuid.NewString()
	r.byID[stored.ID] = stored
	r.byEmail[stored.Email] = stored.ID
	return clone(stored), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(u), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *UserRepository) List(_ context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(f.Search)
	matched := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Name), search) {
			continue
		}
		matched = append(matched, clone(u))
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if f.Order == ports.OrderDesc {
			return lessBy(f.SortBy, matched[j], matched[i])
		}
		return lessBy(f.SortBy, matched[i], matched[j])
	})

	total := int64(len(matched))
	if f.Limit <= 0 {
		return matched, total, nil
	}
	if f.Offset >= len(matched) {
		return []*domain.User{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[f.Offset:end], total, nil
}

// lessBy orders by the requested column, falling back to id so results are
// deterministic across calls.
func lessBy(field ports.SortField, a, b *domain.User) bool {
	switch field {
	case ports.SortByName:
		if a.Name != b.Name {
			return a.Name < b.Name
		}
	case ports.SortByEmail:
		if a.Email != b.Email {
			return a.Email < b.Email
		}
	default:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	return a.ID < b.ID
}

func (r *UserRepository) ListInactive(_ context.Context, cutoff time.Time) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.User
	for _, u := range r.byID {
		if u.IsInactive(cutoff) {
			out = append(out, clone(u))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].LastLoginAt, out[j].LastLoginAt
		switch {
		case a == nil && b != nil:
			return true
		case a != nil && b == nil:
			return false
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[user.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if owner, taken := r.byEmail[user.Email]; taken && owner != user.ID {
		return nil, domain.ErrEmailTaken
	}

	delete(r.byEmail, current.Email)
	stored := clone(user)
	r.byID[stored.ID] = stored
	r.byEmail[stored.Email] = stored.ID
	return clone(stored), nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byEmail, u.Email)
	delete(r.byID, id)
	return nil
}

func (r *UserRepository) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	ts := at.UTC()
	u.LastLoginAt = &ts
	return nil
}

// Ping satisfies the readiness checker; the memory store is always ready.
func (r *UserRepository) Ping(context.Context) error {
	return nil
}
