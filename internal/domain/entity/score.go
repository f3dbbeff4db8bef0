package entity

import (
	"time"
)

// Score представляет результат одной попытки прохождения теста.
// TotalScored хранится в процентах (0-100).
type Score struct {
	ID                 uint         `gorm:"primaryKey" json:"id"`
	QuizID             uint         `gorm:"not null;index" json:"quiz_id"`
	UserID             uint         `gorm:"not null;index" json:"user_id"`
	TimeStampOfAttempt time.Time    `gorm:"not null;index" json:"time_stamp_of_attempt"`
	TotalScored        float64      `gorm:"not null;default:0" json:"total_scored"`
	Answers            []UserAnswer `gorm:"foreignKey:ScoreID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Score) TableName() string {
	return "scores"
}
