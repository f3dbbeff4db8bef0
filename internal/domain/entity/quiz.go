package entity

import (
	"time"
)

// Quiz представляет тест внутри главы
type Quiz struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ChapterID    uint       `gorm:"not null;index" json:"chapter_id"`
	DateOfQuiz   time.Time  `gorm:"not null" json:"date_of_quiz"`
	TimeDuration int        `gorm:"not null;default:30" json:"time_duration"` // в минутах
	Remarks      string     `gorm:"size:500;not null;default:''" json:"remarks"`
	Questions    []Question `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Quiz) TableName() string {
	return "quizzes"
}
