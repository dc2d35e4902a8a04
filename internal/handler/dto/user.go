// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/userdesk/userdesk/internal/model"
)

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Hobby     string `json:"hobby,omitempty"`
}

// UpdateUserRequest represents the request body for updating a user.
// Absent fields are left untouched; an explicit "" clears the field.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Hobby     *string `json:"hobby,omitempty"`
}

// Patch converts the request into a domain patch.
func (r UpdateUserRequest) Patch() model.UserPatch {
	return model.UserPatch{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Hobby:     r.Hobby,
	}
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Hobby     string    `json:"hobby"`
	CreatedAt time.Time `json:"created_at"`
}

// UserListResponse represents every registered user.
type UserListResponse struct {
	Data  []UserResponse `json:"data"`
	Total int            `json:"total"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Hobby:     u.Hobby,
		CreatedAt: u.CreatedAt,
	}
}

// ToUserListResponse converts users to a list response. Data is never null.
func ToUserListResponse(users []model.User) UserListResponse {
	data := make([]UserResponse, len(users))
	for i, u := range users {
		data[i] = ToUserResponse(u)
	}
	return UserListResponse{Data: data, Total: len(data)}
}
