package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	"github.com/yourusername/quizmaster-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizmaster-api/internal/pkg/errors"
)

// SubjectInput - данные для создания/обновления предмета
type SubjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ChapterInput - данные для создания/обновления главы
type ChapterInput struct {
	SubjectID   uint   `json:"subject_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ContentService управляет верхними уровнями иерархии контента:
// предметами и их главами
type ContentService struct {
	subjectRepo repository.SubjectRepository
	chapterRepo repository.ChapterRepository
}

// NewContentService создает новый сервис контента
func NewContentService(
	subjectRepo repository.SubjectRepository,
	chapterRepo repository.ChapterRepository,
) *ContentService {
	return &ContentService{
		subjectRepo: subjectRepo,
		chapterRepo: chapterRepo,
	}
}

// CreateSubject создает новый предмет
func (s *ContentService) CreateSubject(input SubjectInput) (*entity.Subject, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: subject name is required", apperrors.ErrValidation)
	}

	subject := &entity.Subject{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.subjectRepo.Create(subject); err != nil {
		return nil, err
	}
	log.Printf("[ContentService] Создан предмет #%d (%s)", subject.ID, subject.Name)
	return subject, nil
}

// GetSubjects возвращает все предметы
func (s *ContentService) GetSubjects() ([]entity.Subject, error) {
	return s.subjectRepo.GetAll()
}

// GetSubject возвращает предмет по ID
func (s *ContentService) GetSubject(id uint) (*entity.Subject, error) {
	return s.subjectRepo.GetByID(id)
}

// UpdateSubject обновляет предмет
func (s *ContentService) UpdateSubject(id uint, input SubjectInput) (*entity.Subject, error) {
	subject, err := s.subjectRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		subject.Name = name
	}
	subject.Description = strings.TrimSpace(input.Description)

	if err := s.subjectRepo.Update(subject); err != nil {
		return nil, err
	}
	return subject, nil
}

// DeleteSubject удаляет предмет вместе со всем вложенным контентом
func (s *ContentService) DeleteSubject(id uint) error {
	if _, err := s.subjectRepo.GetByID(id); err != nil {
		return err
	}
	return s.subjectRepo.Delete(id)
}

// CreateChapter создает новую главу внутри предмета
func (s *ContentService) CreateChapter(input ChapterInput) (*entity.Chapter, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: chapter name is required", apperrors.ErrValidation)
	}
	if input.SubjectID == 0 {
		return nil, fmt.Errorf("%w: subject_id is required", apperrors.ErrValidation)
	}

	// Родительский предмет должен существовать
	if _, err := s.subjectRepo.GetByID(input.SubjectID); err != nil {
		return nil, err
	}

	chapter := &entity.Chapter{
		SubjectID:   input.SubjectID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.chapterRepo.Create(chapter); err != nil {
		return nil, err
	}
	log.Printf("[ContentService] Создана глава #%d (%s) в предмете #%d", chapter.ID, chapter.Name, chapter.SubjectID)
	return chapter, nil
}

// GetChapter возвращает главу по ID
func (s *ContentService) GetChapter(id uint) (*entity.Chapter, error) {
	return s.chapterRepo.GetByID(id)
}

// GetChaptersBySubject возвращает главы предмета
func (s *ContentService) GetChaptersBySubject(subjectID uint) ([]entity.Chapter, error) {
	if _, err := s.subjectRepo.GetByID(subjectID); err != nil {
		return nil, err
	}
	return s.chapterRepo.GetBySubjectID(subjectID)
}

// UpdateChapter обновляет главу
func (s *ContentService) UpdateChapter(id uint, input ChapterInput) (*entity.Chapter, error) {
	chapter, err := s.chapterRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		chapter.Name = name
	}
	chapter.Description = strings.TrimSpace(input.Description)

	if err := s.chapterRepo.Update(chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

// DeleteChapter удаляет главу вместе со всеми тестами
func (s *ContentService) DeleteChapter(id uint) error {
	if _, err := s.chapterRepo.GetByID(id); err != nil {
		return err
	}
	return s.chapterRepo.Delete(id)
}
