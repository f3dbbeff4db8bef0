package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizmaster-api/internal/pkg/errors"
)

// OptionRepo реализует repository.OptionRepository
type OptionRepo struct {
	db *gorm.DB
}

// NewOptionRepo создает новый репозиторий вариантов ответов
func NewOptionRepo(db *gorm.DB) *OptionRepo {
	return &OptionRepo{db: db}
}

// Create создает новый вариант ответа
func (r *OptionRepo) Create(option *entity.Option) error {
	return r.db.Create(option).Error
}

// GetByID возвращает вариант ответа по ID
func (r *OptionRepo) GetByID(id uint) (*entity.Option, error) {
	var option entity.Option
	err := r.db.First(&option, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &option, nil
}

// GetByQuestionID возвращает варианты ответов вопроса
func (r *OptionRepo) GetByQuestionID(questionID uint) ([]entity.Option, error) {
	var options []entity.Option
	err := r.db.Where("question_id = ?", questionID).Order("id").Find(&options).Error
	return options, err
}

// GetByIDForQuestion ищет вариант по id в рамках конкретного вопроса
func (r *OptionRepo) GetByIDForQuestion(optionID, questionID uint) (*entity.Option, error) {
	var option entity.Option
	err := r.db.Where("id = ? AND question_id = ?", optionID, questionID).First(&option).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &option, nil
}

// Update обновляет информацию о варианте ответа
func (r *OptionRepo) Update(option *entity.Option) error {
	return r.db.Save(option).Error
}

// Delete удаляет вариант ответа
func (r *OptionRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Option{}, id).Error
}
