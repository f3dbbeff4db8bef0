package entity

import (
	"time"
)

// Question представляет вопрос теста
type Question struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	QuizID            uint      `gorm:"not null;index" json:"quiz_id"`
	QuestionStatement string    `gorm:"size:1000;not null" json:"question_statement"`
	Options           []Option  `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// CorrectOption возвращает первый вариант, помеченный как правильный, или nil
func (q *Question) CorrectOption() *Option {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}
