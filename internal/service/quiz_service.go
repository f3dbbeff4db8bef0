package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	"github.com/yourusername/quizmaster-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizmaster-api/internal/pkg/errors"
)

// QuizInput - данные для создания/обновления теста
type QuizInput struct {
	ChapterID    uint   `json:"chapter_id"`
	DateOfQuiz   string `json:"date_of_quiz"` // "2006-01-02" или RFC3339
	TimeDuration int    `json:"time_duration"`
	Remarks      string `json:"remarks"`
}

// QuestionInput - данные для создания/обновления вопроса
type QuestionInput struct {
	QuizID            uint   `json:"quiz_id"`
	QuestionStatement string `json:"question_statement"`
}

// OptionInput - данные для создания/обновления варианта ответа
type OptionInput struct {
	QuestionID uint   `json:"question_id"`
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct"`
}

// QuizService управляет тестами, вопросами и вариантами ответов
type QuizService struct {
	quizRepo     repository.QuizRepository
	chapterRepo  repository.ChapterRepository
	questionRepo repository.QuestionRepository
	optionRepo   repository.OptionRepository
}

// NewQuizService создает новый сервис тестов
func NewQuizService(
	quizRepo repository.QuizRepository,
	chapterRepo repository.ChapterRepository,
	questionRepo repository.QuestionRepository,
	optionRepo repository.OptionRepository,
) *QuizService {
	return &QuizService{
		quizRepo:     quizRepo,
		chapterRepo:  chapterRepo,
		questionRepo: questionRepo,
		optionRepo:   optionRepo,
	}
}

// CreateQuiz создает новый тест внутри главы
func (s *QuizService) CreateQuiz(input QuizInput) (*entity.Quiz, error) {
	if input.ChapterID == 0 {
		return nil, fmt.Errorf("%w: chapter_id is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(input.DateOfQuiz) == "" {
		return nil, fmt.Errorf("%w: date_of_quiz is required", apperrors.ErrValidation)
	}

	date, err := parseFlexibleDate(input.DateOfQuiz)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date_of_quiz format, expected YYYY-MM-DD", apperrors.ErrValidation)
	}

	if _, err := s.chapterRepo.GetByID(input.ChapterID); err != nil {
		return nil, err
	}

	duration := input.TimeDuration
	if duration <= 0 {
		duration = 30
	}

	quiz := &entity.Quiz{
		ChapterID:    input.ChapterID,
		DateOfQuiz:   date,
		TimeDuration: duration,
		Remarks:      strings.TrimSpace(input.Remarks),
	}
	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, err
	}
	log.Printf("[QuizService] Создан тест #%d в главе #%d", quiz.ID, quiz.ChapterID)
	return quiz, nil
}

// GetQuiz возвращает тест по ID
func (s *QuizService) GetQuiz(id uint) (*entity.Quiz, error) {
	return s.quizRepo.GetByID(id)
}

// GetQuizzes возвращает все тесты
func (s *QuizService) GetQuizzes() ([]entity.Quiz, error) {
	return s.quizRepo.GetAll()
}

// GetQuizzesByChapter возвращает тесты главы
func (s *QuizService) GetQuizzesByChapter(chapterID uint) ([]entity.Quiz, error) {
	if _, err := s.chapterRepo.GetByID(chapterID); err != nil {
		return nil, err
	}
	return s.quizRepo.GetByChapterID(chapterID)
}

// UpdateQuiz обновляет тест
func (s *QuizService) UpdateQuiz(id uint, input QuizInput) (*entity.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.DateOfQuiz) != "" {
		date, err := parseFlexibleDate(input.DateOfQuiz)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date_of_quiz format, expected YYYY-MM-DD", apperrors.ErrValidation)
		}
		quiz.DateOfQuiz = date
	}
	if input.TimeDuration > 0 {
		quiz.TimeDuration = input.TimeDuration
	}
	quiz.Remarks = strings.TrimSpace(input.Remarks)

	if err := s.quizRepo.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// DeleteQuiz удаляет тест вместе с вопросами
func (s *QuizService) DeleteQuiz(id uint) error {
	if _, err := s.quizRepo.GetByID(id); err != nil {
		return err
	}
	return s.quizRepo.Delete(id)
}

// GetQuizQuestions возвращает вопросы теста вместе с вариантами ответов
func (s *QuizService) GetQuizQuestions(quizID uint) ([]entity.Question, error) {
	if _, err := s.quizRepo.GetByID(quizID); err != nil {
		return nil, err
	}
	return s.questionRepo.GetByQuizID(quizID)
}

// CreateQuestion создает новый вопрос в тесте
func (s *QuizService) CreateQuestion(input QuestionInput) (*entity.Question, error) {
	if input.QuizID == 0 {
		return nil, fmt.Errorf("%w: quiz_id is required", apperrors.ErrValidation)
	}
	statement := strings.TrimSpace(input.QuestionStatement)
	if statement == "" {
		return nil, fmt.Errorf("%w: question_statement is required", apperrors.ErrValidation)
	}

	if _, err := s.quizRepo.GetByID(input.QuizID); err != nil {
		return nil, err
	}

	question := &entity.Question{
		QuizID:            input.QuizID,
		QuestionStatement: statement,
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

// UpdateQuestion обновляет вопрос
func (s *QuizService) UpdateQuestion(id uint, input QuestionInput) (*entity.Question, error) {
	question, err := s.questionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if statement := strings.TrimSpace(input.QuestionStatement); statement != "" {
		question.QuestionStatement = statement
	}

	if err := s.questionRepo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

// DeleteQuestion удаляет вопрос вместе с вариантами ответов
func (s *QuizService) DeleteQuestion(id uint) error {
	if _, err := s.questionRepo.GetByID(id); err != nil {
		return err
	}
	return s.questionRepo.Delete(id)
}

// CreateOption создает новый вариант ответа.
// Если у вопроса уже есть правильный вариант и добавляется второй правильный,
// операция выполняется, но пишется предупреждение в лог: исторические данные
// встречаются в обоих видах, жесткий запрет ломал бы импорт контента.
func (s *QuizService) CreateOption(input OptionInput) (*entity.Option, error) {
	if input.QuestionID == 0 {
		return nil, fmt.Errorf("%w: question_id is required", apperrors.ErrValidation)
	}
	text := strings.TrimSpace(input.OptionText)
	if text == "" {
		return nil, fmt.Errorf("%w: option_text is required", apperrors.ErrValidation)
	}

	question, err := s.questionRepo.GetByID(input.QuestionID)
	if err != nil {
		return nil, err
	}

	if input.IsCorrect {
		s.warnOnSecondCorrectOption(question.ID, 0)
	}

	option := &entity.Option{
		QuestionID: input.QuestionID,
		OptionText: text,
		IsCorrect:  input.IsCorrect,
	}
	if err := s.optionRepo.Create(option); err != nil {
		return nil, err
	}
	return option, nil
}

// UpdateOption обновляет вариант ответа
func (s *QuizService) UpdateOption(id uint, input OptionInput) (*entity.Option, error) {
	option, err := s.optionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if text := strings.TrimSpace(input.OptionText); text != "" {
		option.OptionText = text
	}
	if input.IsCorrect && !option.IsCorrect {
		s.warnOnSecondCorrectOption(option.QuestionID, option.ID)
	}
	option.IsCorrect = input.IsCorrect

	if err := s.optionRepo.Update(option); err != nil {
		return nil, err
	}
	return option, nil
}

// DeleteOption удаляет вариант ответа
func (s *QuizService) DeleteOption(id uint) error {
	if _, err := s.optionRepo.GetByID(id); err != nil {
		return err
	}
	return s.optionRepo.Delete(id)
}

// warnOnSecondCorrectOption пишет предупреждение, если у вопроса уже есть
// правильный вариант помимо excludeID
func (s *QuizService) warnOnSecondCorrectOption(questionID, excludeID uint) {
	options, err := s.optionRepo.GetByQuestionID(questionID)
	if err != nil {
		return
	}
	for _, opt := range options {
		if opt.IsCorrect && opt.ID != excludeID {
			log.Printf("[QuizService] WARNING: вопрос #%d получает второй правильный вариант", questionID)
			return
		}
	}
}
