package handler

import "github.com/conecta/user-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	User        *domain.User `json:"user"`
}

// --- Users ---

type createUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin"`
}

// updateUserRequest is a partial update; absent fields stay nil.
type updateUserRequest struct {
	Name     *string `json:"name"     validate:"omitnil,min=1"`
	Email    *string `json:"email"    validate:"omitnil,email"`
	Password *string `json:"password" validate:"omitnil,min=6"`
	Role     *string `json:"role"     validate:"omitnil,oneof=user admin"`
}

type listUsersQuery struct {
	Role   string `query:"role"   validate:"omitempty,oneof=user admin"`
	SortBy string `query:"sortBy" validate:"omitempty,oneof=name email createdAt"`
	Order  string `query:"order"`
	Search string `query:"search"`
	Page   int    `query:"page"   validate:"gte=0"`
	Limit  int    `query:"limit"  validate:"gte=0"`
}

type listUsersResponse struct {
	Data  []*domain.User `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page,omitempty"`
	Limit int            `json:"limit,omitempty"`
}

type welcomeResponse struct {
	Message       string `json:"message"`
	Documentation string `json:"documentation"`
}
