package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizmaster-api/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create создает нового пользователя
func (r *UserRepo) Create(user *entity.User) error {
	return r.db.Create(user).Error
}

// GetByID возвращает пользователя по ID
func (r *UserRepo) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail возвращает пользователя по email
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update обновляет информацию о пользователе
func (r *UserRepo) Update(user *entity.User) error {
	return r.db.Save(user).Error
}

// Delete удаляет пользователя. Его результаты удаляются каскадом на уровне базы
func (r *UserRepo) Delete(id uint) error {
	return r.db.Delete(&entity.User{}, id).Error
}

// List возвращает список пользователей с пагинацией и общим количеством
func (r *UserRepo) List(limit, offset int) ([]entity.User, int64, error) {
	var users []entity.User
	var total int64

	// Используем транзакцию для согласованности чтения данных и общего количества
	tx := r.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	if err := tx.Model(&entity.User{}).Count(&total).Error; err != nil {
		tx.Rollback()
		return nil, 0, err
	}

	if err := tx.Limit(limit).Offset(offset).Order("id").Find(&users).Error; err != nil {
		tx.Rollback()
		return nil, 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Search ищет пользователей по email и имени (подстрока, без учета регистра)
func (r *UserRepo) Search(query string) ([]entity.User, error) {
	var users []entity.User
	pattern := "%" + query + "%"
	err := r.db.Where("email ILIKE ? OR full_name ILIKE ?", pattern, pattern).
		Order("id").
		Find(&users).Error
	return users, err
}

// ListActiveByRole возвращает активных пользователей с указанной ролью
func (r *UserRepo) ListActiveByRole(role string) ([]entity.User, error) {
	var users []entity.User
	err := r.db.Where("role = ? AND active = ?", role, true).
		Order("id").
		Find(&users).Error
	return users, err
}
