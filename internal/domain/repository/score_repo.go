package repository

import (
	"time"

	"github.com/yourusername/quizmaster-api/internal/domain/entity"
)

// AttemptsByDay - количество попыток за один день (для графика активности)
type AttemptsByDay struct {
	Day   string `json:"day"` // формат "2006-01-02"
	Count int64  `json:"count"`
}

// TopScorer - агрегированная статистика пользователя для списка лидеров
type TopScorer struct {
	UserID   uint    `json:"user_id"`
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	AvgScore float64 `json:"avg_score"`
	Attempts int64   `json:"attempts"`
}

// ScoreRepository определяет методы для работы с результатами попыток
type ScoreRepository interface {
	// CreateWithAnswers сохраняет результат и все ответы в одной транзакции.
	// При ошибке ни результат, ни ответы не сохраняются.
	CreateWithAnswers(score *entity.Score, answers []entity.UserAnswer) error
	GetByID(id uint) (*entity.Score, error)
	// GetWithAnswers загружает результат вместе с ответами
	GetWithAnswers(id uint) (*entity.Score, error)
	// GetByUserID возвращает все попытки пользователя, новые первыми
	GetByUserID(userID uint) ([]entity.Score, error)
	// GetLatestByUserID возвращает последнюю попытку пользователя
	// или ErrNotFound, если попыток не было
	GetLatestByUserID(userID uint) (*entity.Score, error)
	// GetByUserInWindow возвращает попытки пользователя в интервале [from, to)
	GetByUserInWindow(userID uint, from, to time.Time) ([]entity.Score, error)
	// CountAttemptsByDay возвращает количество попыток по дням начиная с since
	CountAttemptsByDay(since time.Time) ([]AttemptsByDay, error)
	// GetTopScorers возвращает пользователей с лучшим средним результатом
	GetTopScorers(limit int) ([]TopScorer, error)
}
