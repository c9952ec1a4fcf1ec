package handler

import (
	"github.com/conecta/user-api/internal/core/domain"
	"github.com/conecta/user-api/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	}
}

func toCreateInput(req createUserRequest) ports.CreateUserInput {
	return ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	}
}

func toUpdateInput(req updateUserRequest) ports.UpdateUserInput {
	in := ports.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		in.Role = &role
	}
	return in
}

func toListInput(q listUsersQuery) ports.ListUsersInput {
	return ports.ListUsersInput{
		Role:   domain.Role(q.Role),
		SortBy: ports.SortField(q.SortBy),
		Order:  ports.SortOrder(q.Order),
		Search: q.Search,
		Page:   q.Page,
		Limit:  q.Limit,
	}
}

// --- Service result → Response ---

func toListResponse(res *ports.ListUsersResult) listUsersResponse {
	data := res.Data
	if data == nil {
		data = []*domain.User{}
	}
	return listUsersResponse{
		Data:  data,
		Total: res.Total,
		Page:  res.Page,
		Limit: res.Limit,
	}
}
