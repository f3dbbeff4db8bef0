package repository

import (
	"github.com/yourusername/quizmaster-api/internal/domain/entity"
)

// ChapterRepository определяет методы для работы с главами
type ChapterRepository interface {
	Create(chapter *entity.Chapter) error
	GetByID(id uint) (*entity.Chapter, error)
	GetBySubjectID(subjectID uint) ([]entity.Chapter, error)
	Update(chapter *entity.Chapter) error
	Delete(id uint) error
}
