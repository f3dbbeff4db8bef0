package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestion_CorrectOption_Found(t *testing.T) {
	// Arrange
	question := &Question{
		ID:                1,
		QuizID:            1,
		QuestionStatement: "Какой язык используется в Go?",
		Options: []Option{
			{ID: 10, QuestionID: 1, OptionText: "Python", IsCorrect: false},
			{ID: 11, QuestionID: 1, OptionText: "Go", IsCorrect: true},
			{ID: 12, QuestionID: 1, OptionText: "Java", IsCorrect: false},
		},
	}

	// Act
	correct := question.CorrectOption()

	// Assert
	require.NotNil(t, correct, "CorrectOption должен найти правильный вариант")
	assert.Equal(t, uint(11), correct.ID)
	assert.Equal(t, "Go", correct.OptionText)
}

func TestQuestion_CorrectOption_NotFound(t *testing.T) {
	// Arrange: ни один вариант не помечен правильным
	question := &Question{
		Options: []Option{
			{ID: 10, OptionText: "A"},
			{ID: 11, OptionText: "B"},
		},
	}

	// Act & Assert
	assert.Nil(t, question.CorrectOption(), "CorrectOption должен вернуть nil, если правильного варианта нет")
}

func TestQuestion_CorrectOption_NoOptions(t *testing.T) {
	// Arrange
	question := &Question{}

	// Act & Assert
	assert.Nil(t, question.CorrectOption(), "CorrectOption должен вернуть nil для вопроса без вариантов")
}

func TestQuestion_TableName(t *testing.T) {
	question := Question{}
	assert.Equal(t, "questions", question.TableName(), "TableName должен возвращать 'questions'")
}

// Тесты для Job (сериализация payload очереди)

func TestNewJob_WithPayload(t *testing.T) {
	// Arrange & Act
	job, err := NewJob(JobExportScores, ExportPayload{UserID: 42, Format: "csv"})

	// Assert
	require.NoError(t, err, "NewJob не должен возвращать ошибку для сериализуемого payload")
	assert.NotEmpty(t, job.ID, "Job должен получить уникальный идентификатор")
	assert.Equal(t, JobExportScores, job.Name)
	assert.False(t, job.EnqueuedAt.IsZero(), "EnqueuedAt должен быть установлен")

	var payload ExportPayload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, uint(42), payload.UserID)
	assert.Equal(t, "csv", payload.Format)
}

func TestNewJob_WithoutPayload(t *testing.T) {
	// Arrange & Act
	job, err := NewJob(JobDailyReminder, nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, JobDailyReminder, job.Name)
	assert.Nil(t, job.Payload, "Payload должен быть nil, если параметры не переданы")
}

func TestNewJob_UniqueIDs(t *testing.T) {
	// Arrange & Act
	first, err := NewJob(JobMonthlyReport, nil)
	require.NoError(t, err)
	second, err := NewJob(JobMonthlyReport, nil)
	require.NoError(t, err)

	// Assert
	assert.NotEqual(t, first.ID, second.ID, "Идентификаторы задач должны быть уникальными")
}
