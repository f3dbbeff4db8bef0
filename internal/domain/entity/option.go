package entity

import (
	"time"
)

// Option представляет вариант ответа на вопрос
type Option struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	OptionText string    `gorm:"size:500;not null" json:"option_text"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"is_correct,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Option) TableName() string {
	return "options"
}
