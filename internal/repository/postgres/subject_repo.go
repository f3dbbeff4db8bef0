package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizmaster-api/internal/pkg/errors"
)

// SubjectRepo реализует repository.SubjectRepository
type SubjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo создает новый репозиторий предметов
func NewSubjectRepo(db *gorm.DB) *SubjectRepo {
	return &SubjectRepo{db: db}
}

// Create создает новый предмет
func (r *SubjectRepo) Create(subject *entity.Subject) error {
	return r.db.Create(subject).Error
}

// GetByID возвращает предмет по ID
func (r *SubjectRepo) GetByID(id uint) (*entity.Subject, error) {
	var subject entity.Subject
	err := r.db.First(&subject, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &subject, nil
}

// GetAll возвращает все предметы
func (r *SubjectRepo) GetAll() ([]entity.Subject, error) {
	var subjects []entity.Subject
	err := r.db.Order("id").Find(&subjects).Error
	return subjects, err
}

// Update обновляет информацию о предмете
func (r *SubjectRepo) Update(subject *entity.Subject) error {
	return r.db.Save(subject).Error
}

// Delete удаляет предмет. Главы, тесты и вопросы удаляются каскадом на уровне базы
func (r *SubjectRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Subject{}, id).Error
}

// Search ищет предметы по имени и описанию (подстрока, без учета регистра)
func (r *SubjectRepo) Search(query string) ([]entity.Subject, error) {
	var subjects []entity.Subject
	pattern := "%" + query + "%"
	err := r.db.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern).
		Order("id").
		Find(&subjects).Error
	return subjects, err
}
