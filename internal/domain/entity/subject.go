package entity

import (
	"time"
)

// Subject представляет предметную область, верхний уровень иерархии контента
type Subject struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:500;not null;default:''" json:"description"`
	Chapters    []Chapter `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"chapters,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Subject) TableName() string {
	return "subjects"
}
