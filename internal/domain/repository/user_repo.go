package repository

import (
	"github.com/yourusername/quizmaster-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	Delete(id uint) error
	// List возвращает пользователей с пагинацией и общим количеством
	List(limit, offset int) ([]entity.User, int64, error)
	// Search ищет пользователей по email и имени (подстрока, без учета регистра)
	Search(query string) ([]entity.User, error)
	// ListActiveByRole возвращает активных пользователей с указанной ролью
	ListActiveByRole(role string) ([]entity.User, error)
}
