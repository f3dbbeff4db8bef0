package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quizmaster-api/internal/config"
	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	"github.com/yourusername/quizmaster-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizmaster-api/internal/pkg/errors"
)

// Создаем мок-объекты для интерфейсов

type MockScoreRepository struct {
	mock.Mock
}

func (m *MockScoreRepository) CreateWithAnswers(score *entity.Score, answers []entity.UserAnswer) error {
	args := m.Called(score, answers)
	return args.Error(0)
}

func (m *MockScoreRepository) GetByID(id uint) (*entity.Score, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Score), args.Error(1)
}

func (m *MockScoreRepository) GetWithAnswers(id uint) (*entity.Score, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Score), args.Error(1)
}

func (m *MockScoreRepository) GetByUserID(userID uint) ([]entity.Score, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Score), args.Error(1)
}

func (m *MockScoreRepository) GetLatestByUserID(userID uint) (*entity.Score, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Score), args.Error(1)
}

func (m *MockScoreRepository) GetByUserInWindow(userID uint, from, to time.Time) ([]entity.Score, error) {
	args := m.Called(userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Score), args.Error(1)
}

func (m *MockScoreRepository) CountAttemptsByDay(since time.Time) ([]repository.AttemptsByDay, error) {
	args := m.Called(since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.AttemptsByDay), args.Error(1)
}

func (m *MockScoreRepository) GetTopScorers(limit int) ([]repository.TopScorer, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.TopScorer), args.Error(1)
}

type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) Create(quiz *entity.Quiz) error {
	args := m.Called(quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) GetByID(id uint) (*entity.Quiz, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetWithQuestions(id uint) (*entity.Quiz, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetByChapterID(chapterID uint) ([]entity.Quiz, error) {
	args := m.Called(chapterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetAll() ([]entity.Quiz, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Quiz), args.Error(1)
}

func (m *MockQuizRepository) Update(quiz *entity.Quiz) error {
	args := m.Called(quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockQuizRepository) Search(query string) ([]entity.Quiz, error) {
	args := m.Called(query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Quiz), args.Error(1)
}

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByQuizID(quizID uint) ([]entity.Question, error) {
	args := m.Called(quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) Update(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockOptionRepository struct {
	mock.Mock
}

func (m *MockOptionRepository) Create(option *entity.Option) error {
	args := m.Called(option)
	return args.Error(0)
}

func (m *MockOptionRepository) GetByID(id uint) (*entity.Option, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Option), args.Error(1)
}

func (m *MockOptionRepository) GetByQuestionID(questionID uint) ([]entity.Option, error) {
	args := m.Called(questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Option), args.Error(1)
}

func (m *MockOptionRepository) GetByIDForQuestion(optionID, questionID uint) (*entity.Option, error) {
	args := m.Called(optionID, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Option), args.Error(1)
}

func (m *MockOptionRepository) Update(option *entity.Option) error {
	args := m.Called(option)
	return args.Error(0)
}

func (m *MockOptionRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// newScoringService собирает сервис с моками для тестов
func newScoringService(policy string) (*ScoringService, *MockScoreRepository, *MockQuizRepository, *MockQuestionRepository, *MockOptionRepository) {
	scoreRepo := new(MockScoreRepository)
	quizRepo := new(MockQuizRepository)
	questionRepo := new(MockQuestionRepository)
	optionRepo := new(MockOptionRepository)
	svc := NewScoringService(scoreRepo, quizRepo, questionRepo, optionRepo, policy)
	return svc, scoreRepo, quizRepo, questionRepo, optionRepo
}

func TestSubmit_RequiresQuizID(t *testing.T) {
	// Arrange
	svc, _, _, _, _ := newScoringService(config.MalformedSkip)

	// Act
	result, err := svc.Submit(1, SubmitInput{QuizID: 0})

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSubmit_QuizNotFound(t *testing.T) {
	// Arrange
	svc, _, quizRepo, _, _ := newScoringService(config.MalformedSkip)
	quizRepo.On("GetByID", uint(42)).Return(nil, apperrors.ErrNotFound)

	// Act
	result, err := svc.Submit(1, SubmitInput{QuizID: 42})

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	quizRepo.AssertExpectations(t)
}

func TestSubmit_MixedAnswers(t *testing.T) {
	// Arrange: один правильный ответ, один неправильный
	svc, scoreRepo, quizRepo, _, optionRepo := newScoringService(config.MalformedSkip)
	quizRepo.On("GetByID", uint(7)).Return(&entity.Quiz{ID: 7}, nil)
	optionRepo.On("GetByIDForQuestion", uint(11), uint(1)).
		Return(&entity.Option{ID: 11, QuestionID: 1, IsCorrect: true}, nil)
	optionRepo.On("GetByIDForQuestion", uint(21), uint(2)).
		Return(&entity.Option{ID: 21, QuestionID: 2, IsCorrect: false}, nil)

	scoreRepo.On("CreateWithAnswers", mock.AnythingOfType("*entity.Score"), mock.AnythingOfType("[]entity.UserAnswer")).
		Run(func(args mock.Arguments) {
			score := args.Get(0).(*entity.Score)
			score.ID = 100

			answers := args.Get(1).([]entity.UserAnswer)
			require.Len(t, answers, 2)
			assert.True(t, answers[0].WasCorrect)
			assert.False(t, answers[1].WasCorrect)
		}).
		Return(nil)

	// Act
	result, err := svc.Submit(5, SubmitInput{
		QuizID: 7,
		Answers: []SubmitAnswer{
			{QuestionID: 1, SelectedOptionID: 11},
			{QuestionID: 2, SelectedOptionID: 21},
		},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(100), result.ScoreID)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.InDelta(t, 50.0, result.TotalScored, 0.001)
	scoreRepo.AssertExpectations(t)
}

func TestSubmit_NoAnswersScoresZero(t *testing.T) {
	// Arrange: пустая сдача сохраняется с результатом 0
	svc, scoreRepo, quizRepo, _, _ := newScoringService(config.MalformedSkip)
	quizRepo.On("GetByID", uint(7)).Return(&entity.Quiz{ID: 7}, nil)
	scoreRepo.On("CreateWithAnswers", mock.AnythingOfType("*entity.Score"), mock.AnythingOfType("[]entity.UserAnswer")).
		Run(func(args mock.Arguments) {
			score := args.Get(0).(*entity.Score)
			assert.Zero(t, score.TotalScored)
			assert.Empty(t, args.Get(1).([]entity.UserAnswer))
		}).
		Return(nil)

	// Act
	result, err := svc.Submit(5, SubmitInput{QuizID: 7})

	// Assert
	require.NoError(t, err)
	assert.Zero(t, result.TotalQuestions)
	assert.Zero(t, result.TotalScored)
	scoreRepo.AssertExpectations(t)
}

func TestSubmit_UnknownOptionCountsAsWrong(t *testing.T) {
	// Arrange: вариант не принадлежит вопросу
	svc, scoreRepo, quizRepo, _, optionRepo := newScoringService(config.MalformedSkip)
	quizRepo.On("GetByID", uint(7)).Return(&entity.Quiz{ID: 7}, nil)
	optionRepo.On("GetByIDForQuestion", uint(99), uint(1)).Return(nil, apperrors.ErrNotFound)
	scoreRepo.On("CreateWithAnswers", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			answers := args.Get(1).([]entity.UserAnswer)
			require.Len(t, answers, 1)
			assert.False(t, answers[0].WasCorrect)
		}).
		Return(nil)

	// Act
	result, err := svc.Submit(5, SubmitInput{
		QuizID:  7,
		Answers: []SubmitAnswer{{QuestionID: 1, SelectedOptionID: 99}},
	})

	// Assert: попытка в знаменателе, правильных нет
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalQuestions)
	assert.Zero(t, result.CorrectAnswers)
	assert.Zero(t, result.TotalScored)
}

func TestSubmit_MalformedPolicySkip(t *testing.T) {
	// Arrange: запись без selected_option_id молча игнорируется
	svc, scoreRepo, quizRepo, _, optionRepo := newScoringService(config.MalformedSkip)
	quizRepo.On("GetByID", uint(7)).Return(&entity.Quiz{ID: 7}, nil)
	optionRepo.On("GetByIDForQuestion", uint(11), uint(1)).
		Return(&entity.Option{ID: 11, QuestionID: 1, IsCorrect: true}, nil)
	scoreRepo.On("CreateWithAnswers", mock.Anything, mock.Anything).Return(nil)

	// Act
	result, err := svc.Submit(5, SubmitInput{
		QuizID: 7,
		Answers: []SubmitAnswer{
			{QuestionID: 1, SelectedOptionID: 11},
			{QuestionID: 2, SelectedOptionID: 0},
		},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalQuestions)
	assert.InDelta(t, 100.0, result.TotalScored, 0.001)
}

func TestSubmit_MalformedPolicyReject(t *testing.T) {
	// Arrange
	svc, scoreRepo, quizRepo, _, _ := newScoringService(config.MalformedReject)
	quizRepo.On("GetByID", uint(7)).Return(&entity.Quiz{ID: 7}, nil)

	// Act
	result, err := svc.Submit(5, SubmitInput{
		QuizID:  7,
		Answers: []SubmitAnswer{{QuestionID: 0, SelectedOptionID: 11}},
	})

	// Assert: вся сдача отклонена, ничего не сохранено
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	scoreRepo.AssertNotCalled(t, "CreateWithAnswers", mock.Anything, mock.Anything)
}

func TestSubmit_MalformedPolicyCountWrong(t *testing.T) {
	// Arrange: некорректная запись попадает в знаменатель без записи ответа
	svc, scoreRepo, quizRepo, _, optionRepo := newScoringService(config.MalformedCountWrong)
	quizRepo.On("GetByID", uint(7)).Return(&entity.Quiz{ID: 7}, nil)
	optionRepo.On("GetByIDForQuestion", uint(11), uint(1)).
		Return(&entity.Option{ID: 11, QuestionID: 1, IsCorrect: true}, nil)
	scoreRepo.On("CreateWithAnswers", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			assert.Len(t, args.Get(1).([]entity.UserAnswer), 1)
		}).
		Return(nil)

	// Act
	result, err := svc.Submit(5, SubmitInput{
		QuizID: 7,
		Answers: []SubmitAnswer{
			{QuestionID: 1, SelectedOptionID: 11},
			{QuestionID: 0, SelectedOptionID: 0},
		},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.InDelta(t, 50.0, result.TotalScored, 0.001)
}

func TestSubmit_PersistFailurePropagates(t *testing.T) {
	// Arrange
	svc, scoreRepo, quizRepo, _, _ := newScoringService(config.MalformedSkip)
	quizRepo.On("GetByID", uint(7)).Return(&entity.Quiz{ID: 7}, nil)
	scoreRepo.On("CreateWithAnswers", mock.Anything, mock.Anything).Return(errors.New("db down"))

	// Act
	result, err := svc.Submit(5, SubmitInput{QuizID: 7})

	// Assert
	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestGetScoreDetails_ForbiddenForOtherUser(t *testing.T) {
	// Arrange
	svc, scoreRepo, _, _, _ := newScoringService(config.MalformedSkip)
	scoreRepo.On("GetWithAnswers", uint(3)).Return(&entity.Score{ID: 3, UserID: 8}, nil)

	// Act
	details, err := svc.GetScoreDetails(3, 5)

	// Assert
	assert.Nil(t, details)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestGetScoreDetails_ToleratesDeletedQuestion(t *testing.T) {
	// Arrange: вопрос удален после попытки, снапшот was_correct сохраняется
	svc, scoreRepo, _, questionRepo, optionRepo := newScoringService(config.MalformedSkip)
	scoreRepo.On("GetWithAnswers", uint(3)).Return(&entity.Score{
		ID:     3,
		UserID: 5,
		Answers: []entity.UserAnswer{
			{QuestionID: 1, SelectedOptionID: 11, WasCorrect: true},
		},
	}, nil)
	questionRepo.On("GetByID", uint(1)).Return(nil, apperrors.ErrNotFound)
	optionRepo.On("GetByQuestionID", uint(1)).Return([]entity.Option{}, nil)

	// Act
	details, err := svc.GetScoreDetails(3, 5)

	// Assert
	require.NoError(t, err)
	require.Len(t, details.Answers, 1)
	assert.Empty(t, details.Answers[0].QuestionStatement)
	assert.True(t, details.Answers[0].WasCorrect)
}

func TestGetUserStats(t *testing.T) {
	// Arrange
	svc, scoreRepo, _, _, _ := newScoringService(config.MalformedSkip)
	now := time.Now()
	scoreRepo.On("GetByUserID", uint(5)).Return([]entity.Score{
		{TotalScored: 80, TimeStampOfAttempt: now},
		{TotalScored: 60, TimeStampOfAttempt: now.Add(-time.Hour)},
	}, nil)

	// Act
	stats, err := svc.GetUserStats(5)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalAttempts)
	assert.InDelta(t, 70.0, stats.AverageScore, 0.001)
	assert.InDelta(t, 80.0, stats.BestScore, 0.001)
	require.NotNil(t, stats.LastAttemptAt)
	assert.Equal(t, now, *stats.LastAttemptAt)
}

func TestGetUserStats_NoAttempts(t *testing.T) {
	// Arrange
	svc, scoreRepo, _, _, _ := newScoringService(config.MalformedSkip)
	scoreRepo.On("GetByUserID", uint(5)).Return([]entity.Score{}, nil)

	// Act
	stats, err := svc.GetUserStats(5)

	// Assert
	require.NoError(t, err)
	assert.Zero(t, stats.TotalAttempts)
	assert.Zero(t, stats.AverageScore)
	assert.Nil(t, stats.LastAttemptAt)
}
