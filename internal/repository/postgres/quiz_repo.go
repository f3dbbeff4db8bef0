package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizmaster-api/internal/pkg/errors"
)

// QuizRepo реализует repository.QuizRepository
type QuizRepo struct {
	db *gorm.DB
}

// NewQuizRepo создает новый репозиторий тестов
func NewQuizRepo(db *gorm.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

// Create создает новый тест
func (r *QuizRepo) Create(quiz *entity.Quiz) error {
	return r.db.Create(quiz).Error
}

// GetByID возвращает тест по ID
func (r *QuizRepo) GetByID(id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// GetWithQuestions возвращает тест вместе с вопросами и вариантами ответов
func (r *QuizRepo) GetWithQuestions(id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.Preload("Questions.Options").First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// GetByChapterID возвращает тесты главы
func (r *QuizRepo) GetByChapterID(chapterID uint) ([]entity.Quiz, error) {
	var quizzes []entity.Quiz
	err := r.db.Where("chapter_id = ?", chapterID).Order("date_of_quiz").Find(&quizzes).Error
	return quizzes, err
}

// GetAll возвращает все тесты
func (r *QuizRepo) GetAll() ([]entity.Quiz, error) {
	var quizzes []entity.Quiz
	err := r.db.Order("id").Find(&quizzes).Error
	return quizzes, err
}

// Update обновляет информацию о тесте
func (r *QuizRepo) Update(quiz *entity.Quiz) error {
	return r.db.Save(quiz).Error
}

// Delete удаляет тест. Вопросы и варианты удаляются каскадом на уровне базы
func (r *QuizRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Quiz{}, id).Error
}

// Search ищет тесты по примечаниям (подстрока, без учета регистра)
func (r *QuizRepo) Search(query string) ([]entity.Quiz, error) {
	var quizzes []entity.Quiz
	pattern := "%" + query + "%"
	err := r.db.Where("remarks ILIKE ?", pattern).Order("id").Find(&quizzes).Error
	return quizzes, err
}
