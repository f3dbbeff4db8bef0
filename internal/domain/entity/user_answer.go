package entity

import (
	"time"
)

// UserAnswer представляет ответ пользователя на вопрос в рамках одной попытки.
// WasCorrect фиксирует правильность на момент сдачи: последующее редактирование
// вопросов и вариантов не меняет историю.
type UserAnswer struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ScoreID          uint      `gorm:"not null;index" json:"score_id"`
	QuestionID       uint      `gorm:"not null;index" json:"question_id"`
	SelectedOptionID uint      `gorm:"not null" json:"selected_option_id"`
	WasCorrect       bool      `gorm:"not null;default:false" json:"was_correct"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (UserAnswer) TableName() string {
	return "user_answers"
}
