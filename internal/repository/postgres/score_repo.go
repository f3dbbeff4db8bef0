package postgres

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	"github.com/yourusername/quizmaster-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizmaster-api/internal/pkg/errors"
)

// ScoreRepo реализует repository.ScoreRepository
type ScoreRepo struct {
	db *gorm.DB
}

// NewScoreRepo создает новый репозиторий результатов
func NewScoreRepo(db *gorm.DB) *ScoreRepo {
	return &ScoreRepo{db: db}
}

// CreateWithAnswers сохраняет результат и все ответы в одной транзакции.
// При любой ошибке транзакция откатывается целиком.
func (r *ScoreRepo) CreateWithAnswers(score *entity.Score, answers []entity.UserAnswer) error {
	tx := r.db.Begin()
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			log.Printf("[ScoreRepo.CreateWithAnswers] Паника при сохранении результата: %v", rec)
		}
	}()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Create(score).Error; err != nil {
		tx.Rollback()
		return err
	}

	if len(answers) > 0 {
		for i := range answers {
			answers[i].ScoreID = score.ID
		}
		if err := tx.Create(&answers).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit().Error
}

// GetByID возвращает результат по ID
func (r *ScoreRepo) GetByID(id uint) (*entity.Score, error) {
	var score entity.Score
	err := r.db.First(&score, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &score, nil
}

// GetWithAnswers возвращает результат вместе с ответами
func (r *ScoreRepo) GetWithAnswers(id uint) (*entity.Score, error) {
	var score entity.Score
	err := r.db.Preload("Answers").First(&score, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &score, nil
}

// GetByUserID возвращает все попытки пользователя, новые первыми
func (r *ScoreRepo) GetByUserID(userID uint) ([]entity.Score, error) {
	var scores []entity.Score
	err := r.db.Where("user_id = ?", userID).
		Order("time_stamp_of_attempt DESC").
		Find(&scores).Error
	return scores, err
}

// GetLatestByUserID возвращает последнюю попытку пользователя
func (r *ScoreRepo) GetLatestByUserID(userID uint) (*entity.Score, error) {
	var score entity.Score
	err := r.db.Where("user_id = ?", userID).
		Order("time_stamp_of_attempt DESC").
		First(&score).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &score, nil
}

// GetByUserInWindow возвращает попытки пользователя в интервале [from, to)
func (r *ScoreRepo) GetByUserInWindow(userID uint, from, to time.Time) ([]entity.Score, error) {
	var scores []entity.Score
	err := r.db.Where("user_id = ? AND time_stamp_of_attempt >= ? AND time_stamp_of_attempt < ?",
		userID, from, to).
		Order("time_stamp_of_attempt").
		Find(&scores).Error
	return scores, err
}

// CountAttemptsByDay возвращает количество попыток по дням начиная с since
func (r *ScoreRepo) CountAttemptsByDay(since time.Time) ([]repository.AttemptsByDay, error) {
	var rows []repository.AttemptsByDay
	err := r.db.Model(&entity.Score{}).
		Select("to_char(time_stamp_of_attempt, 'YYYY-MM-DD') AS day, COUNT(*) AS count").
		Where("time_stamp_of_attempt >= ?", since).
		Group("day").
		Order("day").
		Scan(&rows).Error
	return rows, err
}

// GetTopScorers возвращает пользователей с лучшим средним результатом
func (r *ScoreRepo) GetTopScorers(limit int) ([]repository.TopScorer, error) {
	var rows []repository.TopScorer
	err := r.db.Model(&entity.Score{}).
		Select("scores.user_id AS user_id, users.full_name AS full_name, users.email AS email, "+
			"AVG(scores.total_scored) AS avg_score, COUNT(*) AS attempts").
		Joins("JOIN users ON users.id = scores.user_id").
		Where("users.role = ?", entity.RoleUser).
		Group("scores.user_id, users.full_name, users.email").
		Order("avg_score DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
