package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	"github.com/yourusername/quizmaster-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizmaster-api/internal/pkg/errors"
)

// UpdateUserInput - изменяемые администратором поля пользователя.
// nil означает "не менять".
type UpdateUserInput struct {
	FullName      *string `json:"full_name"`
	Qualification *string `json:"qualification"`
	Active        *bool   `json:"active"`
	Role          *string `json:"role"`
}

// UserService предоставляет методы управления пользователями
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetByID возвращает пользователя по ID
func (s *UserService) GetByID(id uint) (*entity.User, error) {
	return s.userRepo.GetByID(id)
}

// List возвращает пользователей с пагинацией и общим количеством
func (s *UserService) List(page, pageSize int) ([]entity.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	} else if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize
	return s.userRepo.List(pageSize, offset)
}

// Update изменяет пользователя от имени администратора
func (s *UserService) Update(id uint, input UpdateUserInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Qualification != nil {
		user.Qualification = strings.TrimSpace(*input.Qualification)
	}
	if input.Active != nil {
		user.Active = *input.Active
	}
	if input.Role != nil {
		role := *input.Role
		if role != entity.RoleUser && role != entity.RoleAdmin {
			return nil, fmt.Errorf("%w: role must be 'user' or 'admin'", apperrors.ErrValidation)
		}
		user.Role = role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete удаляет пользователя. Администраторов удалять нельзя.
// Результаты пользователя удаляются каскадом.
func (s *UserService) Delete(id uint) error {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return fmt.Errorf("%w: admin users cannot be deleted", apperrors.ErrForbidden)
	}

	if err := s.userRepo.Delete(id); err != nil {
		return err
	}
	log.Printf("[UserService] Удален пользователь #%d (%s)", id, user.Email)
	return nil
}
