package repository

import (
	"github.com/yourusername/quizmaster-api/internal/domain/entity"
)

// OptionRepository определяет методы для работы с вариантами ответов
type OptionRepository interface {
	Create(option *entity.Option) error
	GetByID(id uint) (*entity.Option, error)
	GetByQuestionID(questionID uint) ([]entity.Option, error)
	// GetByIDForQuestion ищет вариант по id в рамках конкретного вопроса.
	// Возвращает ErrNotFound, если вариант не существует или принадлежит другому вопросу.
	GetByIDForQuestion(optionID, questionID uint) (*entity.Option, error)
	Update(option *entity.Option) error
	Delete(id uint) error
}
