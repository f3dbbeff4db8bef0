package repository

import (
	"github.com/yourusername/quizmaster-api/internal/domain/entity"
)

// QuizRepository определяет методы для работы с тестами
type QuizRepository interface {
	Create(quiz *entity.Quiz) error
	GetByID(id uint) (*entity.Quiz, error)
	// GetWithQuestions загружает тест вместе с вопросами и вариантами ответов
	GetWithQuestions(id uint) (*entity.Quiz, error)
	GetByChapterID(chapterID uint) ([]entity.Quiz, error)
	GetAll() ([]entity.Quiz, error)
	Update(quiz *entity.Quiz) error
	Delete(id uint) error
	// Search ищет тесты по примечаниям (подстрока, без учета регистра)
	Search(query string) ([]entity.Quiz, error)
}
