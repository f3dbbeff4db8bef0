package dto

import (
	"time"

	"github.com/yourusername/quizmaster-api/internal/domain/entity"
)

// UserResponse представляет пользователя в формате для ответа клиенту
type UserResponse struct {
	ID            uint       `json:"id"`
	Email         string     `json:"email"`
	FullName      string     `json:"full_name"`
	Qualification string     `json:"qualification"`
	DOB           *time.Time `json:"dob,omitempty"`
	Role          string     `json:"role"`
	Active        bool       `json:"active"`
	CreatedAt     time.Time  `json:"created_at"`
}

// PaginatedUsersResponse представляет пагинированный список пользователей
type PaginatedUsersResponse struct {
	Users   []*UserResponse `json:"users"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
}

// NewUserResponse создает DTO для пользователя
func NewUserResponse(user *entity.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		FullName:      user.FullName,
		Qualification: user.Qualification,
		DOB:           user.DOB,
		Role:          user.Role,
		Active:        user.Active,
		CreatedAt:     user.CreatedAt,
	}
}

// NewPaginatedUsersResponse создает DTO для пагинированного списка пользователей
func NewPaginatedUsersResponse(users []entity.User, total int64, page, perPage int) *PaginatedUsersResponse {
	list := make([]*UserResponse, len(users))
	for i := range users {
		list[i] = NewUserResponse(&users[i])
	}
	return &PaginatedUsersResponse{
		Users:   list,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}
