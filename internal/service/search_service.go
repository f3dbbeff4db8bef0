package service

import (
	"fmt"
	"strings"

	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	"github.com/yourusername/quizmaster-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizmaster-api/internal/pkg/errors"
)

// SearchResults - результаты глобального поиска по платформе
type SearchResults struct {
	Users    []entity.User    `json:"users"`
	Subjects []entity.Subject `json:"subjects"`
	Quizzes  []entity.Quiz    `json:"quizzes"`
}

// SearchService выполняет глобальный поиск для административной панели
type SearchService struct {
	userRepo    repository.UserRepository
	subjectRepo repository.SubjectRepository
	quizRepo    repository.QuizRepository
}

// NewSearchService создает новый сервис поиска
func NewSearchService(
	userRepo repository.UserRepository,
	subjectRepo repository.SubjectRepository,
	quizRepo repository.QuizRepository,
) *SearchService {
	return &SearchService{
		userRepo:    userRepo,
		subjectRepo: subjectRepo,
		quizRepo:    quizRepo,
	}
}

// Search ищет пользователей, предметы и тесты по подстроке
func (s *SearchService) Search(query string) (*SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", apperrors.ErrValidation)
	}

	users, err := s.userRepo.Search(query)
	if err != nil {
		return nil, err
	}
	subjects, err := s.subjectRepo.Search(query)
	if err != nil {
		return nil, err
	}
	quizzes, err := s.quizRepo.Search(query)
	if err != nil {
		return nil, err
	}

	return &SearchResults{
		Users:    users,
		Subjects: subjects,
		Quizzes:  quizzes,
	}, nil
}
