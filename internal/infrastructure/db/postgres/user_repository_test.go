package postgres

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/conecta/user-api/internal/core/domain"
	"github.com/conecta/user-api/internal/core/ports"
)

func TestListClauses(t *testing.T) {
	cases := []struct {
		name      string
		in        ports.ListUsersFilter
		wantWhere string
		wantOrder string
		wantArgs  []any
	}{
		{
			name:      "defaults",
			in:        ports.ListUsersFilter{},
			wantOrder: " ORDER BY created_at DESC, id DESC",
		},
		{
			name:      "role and search",
			in:        ports.ListUsersFilter{Role: domain.RoleAdmin, Search: "50%_off", SortBy: ports.SortByName, Order: ports.OrderAsc},
			wantWhere: " WHERE role = $1 AND name ILIKE $2",
			wantOrder: " ORDER BY name ASC, id ASC",
			wantArgs:  []any{"admin", `%50\%\_off%`},
		},
		{
			name:      "search only",
			in:        ports.ListUsersFilter{Search: "ali", SortBy: ports.SortByEmail, Order: ports.OrderDesc},
			wantWhere: " WHERE name ILIKE $1",
			wantOrder: " ORDER BY email DESC, id DESC",
			wantArgs:  []any{"%ali%"},
		},
		{
			name:      "unknown column falls back",
			in:        ports.ListUsersFilter{SortBy: "password_hash; DROP TABLE users"},
			wantOrder: " ORDER BY created_at DESC, id DESC",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			where, order, args := listClauses(tc.in)
			if where != tc.wantWhere {
				t.Fatalf("where = %q, want %q", where, tc.wantWhere)
			}
			if order != tc.wantOrder {
				t.Fatalf("order = %q, want %q", order, tc.wantOrder)
			}
			if !reflect.DeepEqual(args, tc.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tc.wantArgs)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	if !isUniqueViolation(dup) {
		t.Fatal("expected wrapped 23505 to be detected")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("foreign key violation is not a unique violation")
	}
	if isUniqueViolation(errors.New("plain")) {
		t.Fatal("plain error is not a unique violation")
	}
}

func TestValidID(t *testing.T) {
	if validID("u1") {
		t.Fatal("expected non-uuid id to be rejected")
	}
	if !validID("3f1c2f3e-1d8b-4c8e-9a4b-2f7d0c1e5a6b") {
		t.Fatal("expected uuid to be accepted")
	}
}

func TestUserRepository_WithTimeout(t *testing.T) {
	r := NewUserRepository(nil)

	ctx, cancel := r.withTimeout(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatalf("expected a deadline on repository calls")
	}
	if remaining := time.Until(deadline); remaining <= 0 || remaining > defaultTimeout {
		t.Fatalf("deadline %v outside (0, %v]", remaining, defaultTimeout)
	}

	parent, parentCancel := context.WithTimeout(context.Background(), time.Second)
	defer parentCancel()
	ctx, cancel = r.withTimeout(parent)
	defer cancel()
	if deadline, _ := ctx.Deadline(); time.Until(deadline) > time.Second {
		t.Fatalf("repository timeout must not extend the caller deadline")
	}
}
