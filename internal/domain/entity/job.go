package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Имена фоновых задач
const (
	JobExportScores  = "generate_csv_export"
	JobDailyReminder = "daily_reminder_emails"
	JobMonthlyReport = "monthly_activity_report"
)

// Job представляет фоновую задачу в очереди.
// Payload содержит параметры задачи в JSON (схема зависит от Name).
type Job struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// NewJob создает задачу с уникальным идентификатором и текущим временем постановки
func NewJob(name string, payload interface{}) (*Job, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = data
	}
	return &Job{
		ID:         uuid.New().String(),
		Name:       name,
		Payload:    raw,
		EnqueuedAt: time.Now(),
	}, nil
}

// ExportPayload - параметры задачи экспорта результатов пользователя
type ExportPayload struct {
	UserID uint   `json:"user_id"`
	Format string `json:"format"` // "csv" или "xlsx"
}
