package repository

import (
	"github.com/yourusername/quizmaster-api/internal/domain/entity"
)

// SubjectRepository определяет методы для работы с предметами
type SubjectRepository interface {
	Create(subject *entity.Subject) error
	GetByID(id uint) (*entity.Subject, error)
	GetAll() ([]entity.Subject, error)
	Update(subject *entity.Subject) error
	Delete(id uint) error
	// Search ищет предметы по имени и описанию (подстрока, без учета регистра)
	Search(query string) ([]entity.Subject, error)
}
