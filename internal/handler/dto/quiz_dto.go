package dto

import (
	"time"

	"github.com/yourusername/quizmaster-api/internal/domain/entity"
)

// OptionResponse представляет вариант ответа в формате для ответа клиенту.
// IsCorrect присутствует только в административных ответах.
type OptionResponse struct {
	ID         uint   `json:"id"`
	QuestionID uint   `json:"question_id"`
	OptionText string `json:"option_text"`
	IsCorrect  *bool  `json:"is_correct,omitempty"`
}

// QuestionResponse представляет вопрос в формате для ответа клиенту
type QuestionResponse struct {
	ID                uint             `json:"id"`
	QuizID            uint             `json:"quiz_id"`
	QuestionStatement string           `json:"question_statement"`
	Options           []OptionResponse `json:"options"`
}

// QuizResponse представляет тест в формате для ответа клиенту
type QuizResponse struct {
	ID            uint               `json:"id"`
	ChapterID     uint               `json:"chapter_id"`
	DateOfQuiz    time.Time          `json:"date_of_quiz"`
	TimeDuration  int                `json:"time_duration"`
	Remarks       string             `json:"remarks,omitempty"`
	QuestionCount int                `json:"question_count"`
	Questions     []QuestionResponse `json:"questions,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// NewOptionResponse создает DTO для варианта ответа.
// includeAnswers управляет видимостью флага is_correct.
func NewOptionResponse(o *entity.Option, includeAnswers bool) OptionResponse {
	resp := OptionResponse{
		ID:         o.ID,
		QuestionID: o.QuestionID,
		OptionText: o.OptionText,
	}
	if includeAnswers {
		isCorrect := o.IsCorrect
		resp.IsCorrect = &isCorrect
	}
	return resp
}

// NewQuestionResponse создает DTO для вопроса.
// Для проходящих тест пользователей правильные ответы скрываются.
func NewQuestionResponse(q *entity.Question, includeAnswers bool) QuestionResponse {
	options := make([]OptionResponse, len(q.Options))
	for i := range q.Options {
		options[i] = NewOptionResponse(&q.Options[i], includeAnswers)
	}
	return QuestionResponse{
		ID:                q.ID,
		QuizID:            q.QuizID,
		QuestionStatement: q.QuestionStatement,
		Options:           options,
	}
}

// NewQuizResponse создает DTO для теста
func NewQuizResponse(quiz *entity.Quiz, includeQuestions, includeAnswers bool) *QuizResponse {
	if quiz == nil {
		return nil
	}

	var questions []QuestionResponse
	if includeQuestions {
		questions = make([]QuestionResponse, len(quiz.Questions))
		for i := range quiz.Questions {
			questions[i] = NewQuestionResponse(&quiz.Questions[i], includeAnswers)
		}
	}

	return &QuizResponse{
		ID:            quiz.ID,
		ChapterID:     quiz.ChapterID,
		DateOfQuiz:    quiz.DateOfQuiz,
		TimeDuration:  quiz.TimeDuration,
		Remarks:       quiz.Remarks,
		QuestionCount: len(quiz.Questions),
		Questions:     questions,
		CreatedAt:     quiz.CreatedAt,
		UpdatedAt:     quiz.UpdatedAt,
	}
}

// NewListQuizResponse создает слайс DTO для списка тестов
func NewListQuizResponse(quizzes []entity.Quiz) []*QuizResponse {
	list := make([]*QuizResponse, len(quizzes))
	for i := range quizzes {
		// Вопросы в список не включаются
		list[i] = NewQuizResponse(&quizzes[i], false, false)
	}
	return list
}
