package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizmaster-api/internal/pkg/errors"
)

// ChapterRepo реализует repository.ChapterRepository
type ChapterRepo struct {
	db *gorm.DB
}

// NewChapterRepo создает новый репозиторий глав
func NewChapterRepo(db *gorm.DB) *ChapterRepo {
	return &ChapterRepo{db: db}
}

// Create создает новую главу
func (r *ChapterRepo) Create(chapter *entity.Chapter) error {
	return r.db.Create(chapter).Error
}

// GetByID возвращает главу по ID
func (r *ChapterRepo) GetByID(id uint) (*entity.Chapter, error) {
	var chapter entity.Chapter
	err := r.db.First(&chapter, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &chapter, nil
}

// GetBySubjectID возвращает главы предмета
func (r *ChapterRepo) GetBySubjectID(subjectID uint) ([]entity.Chapter, error) {
	var chapters []entity.Chapter
	err := r.db.Where("subject_id = ?", subjectID).Order("id").Find(&chapters).Error
	return chapters, err
}

// Update обновляет информацию о главе
func (r *ChapterRepo) Update(chapter *entity.Chapter) error {
	return r.db.Save(chapter).Error
}

// Delete удаляет главу. Тесты и вопросы удаляются каскадом на уровне базы
func (r *ChapterRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Chapter{}, id).Error
}
