package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quizmaster-api/internal/config"
	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizmaster-api/internal/pkg/errors"
)

// newExportService собирает сервис экспорта с моками и временным каталогом
func newExportService(t *testing.T) (*ExportService, *MockUserRepository, *MockScoreRepository, *MockQuizRepository, *MockEmailService, string) {
	t.Helper()
	dir := t.TempDir()
	userRepo := new(MockUserRepository)
	scoreRepo := new(MockScoreRepository)
	quizRepo := new(MockQuizRepository)
	emailSvc := new(MockEmailService)
	svc := NewExportService(userRepo, scoreRepo, quizRepo, emailSvc, config.ExportConfig{
		Dir:     dir,
		BaseURL: "http://localhost:8080/exports",
		Format:  "csv",
	})
	return svc, userRepo, scoreRepo, quizRepo, emailSvc, dir
}

func TestExportRun_MissingUserIsNotAnError(t *testing.T) {
	// Arrange: пользователь удален до выполнения задачи
	svc, userRepo, _, _, emailSvc, _ := newExportService(t)
	userRepo.On("GetByID", uint(9)).Return(nil, apperrors.ErrNotFound)

	// Act
	summary, err := svc.Run(context.Background(), 9, "csv")

	// Assert: задача завершается успешно с диагностикой
	require.NoError(t, err)
	assert.Contains(t, summary, "user 9 not found")
	emailSvc.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExportRun_NoAttemptsIsNotAnError(t *testing.T) {
	// Arrange
	svc, userRepo, scoreRepo, _, emailSvc, _ := newExportService(t)
	userRepo.On("GetByID", uint(5)).Return(&entity.User{ID: 5, Email: "u@example.com"}, nil)
	scoreRepo.On("GetByUserID", uint(5)).Return([]entity.Score{}, nil)

	// Act
	summary, err := svc.Run(context.Background(), 5, "csv")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, summary, "no quiz attempts")
	emailSvc.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExportRun_WritesCSVAndSendsLink(t *testing.T) {
	// Arrange
	svc, userRepo, scoreRepo, quizRepo, emailSvc, dir := newExportService(t)
	attemptAt := time.Date(2024, 2, 10, 14, 30, 0, 0, time.UTC)

	userRepo.On("GetByID", uint(5)).Return(&entity.User{ID: 5, Email: "u@example.com", FullName: "User"}, nil)
	scoreRepo.On("GetByUserID", uint(5)).Return([]entity.Score{
		{ID: 1, QuizID: 7, TotalScored: 75.5, TimeStampOfAttempt: attemptAt},
	}, nil)
	quizRepo.On("GetByID", uint(7)).Return(&entity.Quiz{
		ID:           7,
		DateOfQuiz:   time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC),
		TimeDuration: 45,
		Remarks:      "=cmd() chapter recap",
	}, nil)
	emailSvc.On("Send", mock.Anything, "u@example.com", "Your quiz export is ready", mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "http://localhost:8080/exports/user_5_quiz_export.csv")
	})).Return(nil)

	// Act
	summary, err := svc.Run(context.Background(), 5, "csv")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, summary, "exported 1 attempts")

	data, err := os.ReadFile(filepath.Join(dir, "user_5_quiz_export.csv"))
	require.NoError(t, err)
	content := string(data)

	// BOM в начале файла для Excel
	assert.True(t, strings.HasPrefix(content, "\xEF\xBB\xBF"))
	assert.Contains(t, content, "Quiz ID")
	// Примечание, похожее на формулу, нейтрализовано апострофом
	assert.Contains(t, content, "'=cmd() chapter recap")
	assert.Contains(t, content, "75.50")
	emailSvc.AssertExpectations(t)
}

func TestExportRun_DeletedQuizLeavesEmptyColumns(t *testing.T) {
	// Arrange: тест удален после попытки, строка экспорта сохраняется
	svc, userRepo, scoreRepo, quizRepo, emailSvc, dir := newExportService(t)
	userRepo.On("GetByID", uint(5)).Return(&entity.User{ID: 5, Email: "u@example.com"}, nil)
	scoreRepo.On("GetByUserID", uint(5)).Return([]entity.Score{
		{ID: 1, QuizID: 7, TotalScored: 50, TimeStampOfAttempt: time.Now()},
	}, nil)
	quizRepo.On("GetByID", uint(7)).Return(nil, apperrors.ErrNotFound)
	emailSvc.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	// Act
	_, err := svc.Run(context.Background(), 5, "csv")

	// Assert
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "user_5_quiz_export.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "50.00")
}

func TestExportRun_XLSXFormat(t *testing.T) {
	// Arrange
	svc, userRepo, scoreRepo, quizRepo, emailSvc, dir := newExportService(t)
	userRepo.On("GetByID", uint(5)).Return(&entity.User{ID: 5, Email: "u@example.com"}, nil)
	scoreRepo.On("GetByUserID", uint(5)).Return([]entity.Score{
		{ID: 1, QuizID: 7, TotalScored: 100, TimeStampOfAttempt: time.Now()},
	}, nil)
	quizRepo.On("GetByID", uint(7)).Return(&entity.Quiz{ID: 7, DateOfQuiz: time.Now()}, nil)
	emailSvc.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "user_5_quiz_export.xlsx")
	})).Return(nil)

	// Act
	_, err := svc.Run(context.Background(), 5, "xlsx")

	// Assert
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "user_5_quiz_export.xlsx"))
	assert.NoError(t, statErr)
}

func TestSanitizeForExcel(t *testing.T) {
	// Строки, начинающиеся с символов формул, экранируются апострофом
	assert.Equal(t, "'=SUM(A1)", sanitizeForExcel("=SUM(A1)"))
	assert.Equal(t, "'+1", sanitizeForExcel("+1"))
	assert.Equal(t, "'-1", sanitizeForExcel("-1"))
	assert.Equal(t, "'@cmd", sanitizeForExcel("@cmd"))
	assert.Equal(t, "plain remark", sanitizeForExcel("plain remark"))
	assert.Equal(t, "", sanitizeForExcel(""))
}
