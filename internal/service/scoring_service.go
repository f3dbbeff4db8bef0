package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/quizmaster-api/internal/config"
	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	"github.com/yourusername/quizmaster-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizmaster-api/internal/pkg/errors"
)

// SubmitAnswer - один ответ пользователя в запросе на сдачу теста
type SubmitAnswer struct {
	QuestionID       uint `json:"question_id"`
	SelectedOptionID uint `json:"selected_option_id"`
}

// SubmitInput - запрос на сдачу теста
type SubmitInput struct {
	QuizID  uint           `json:"quiz_id"`
	Answers []SubmitAnswer `json:"answers"`
}

// SubmitResult - итог сдачи теста
type SubmitResult struct {
	ScoreID        uint    `json:"score_id"`
	QuizID         uint    `json:"quiz_id"`
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalScored    float64 `json:"total_scored"`
}

// AnswerDetail - один ответ в детализации попытки
type AnswerDetail struct {
	QuestionID        uint            `json:"question_id"`
	QuestionStatement string          `json:"question_statement"`
	SelectedOptionID  uint            `json:"selected_option_id"`
	WasCorrect        bool            `json:"was_correct"`
	Options           []entity.Option `json:"options"`
}

// ScoreDetails - попытка вместе с детализацией ответов
type ScoreDetails struct {
	Score   *entity.Score  `json:"score"`
	Answers []AnswerDetail `json:"answers"`
}

// UserStats - агрегированная статистика пользователя
type UserStats struct {
	UserID        uint       `json:"user_id"`
	TotalAttempts int        `json:"total_attempts"`
	AverageScore  float64    `json:"average_score"`
	BestScore     float64    `json:"best_score"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
}

// SummaryStats - сводная статистика платформы для администратора
type SummaryStats struct {
	AttemptsByDay []repository.AttemptsByDay `json:"attempts_by_day"`
	TopScorers    []repository.TopScorer     `json:"top_scorers"`
}

// ScoringService подсчитывает результаты сдачи тестов.
// Результат попытки хранится в процентах (0-100) и фиксируется на момент
// сдачи: правильность каждого ответа снапшотится в user_answers.
type ScoringService struct {
	scoreRepo       repository.ScoreRepository
	quizRepo        repository.QuizRepository
	questionRepo    repository.QuestionRepository
	optionRepo      repository.OptionRepository
	malformedPolicy string
}

// NewScoringService создает новый сервис подсчета результатов
func NewScoringService(
	scoreRepo repository.ScoreRepository,
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	optionRepo repository.OptionRepository,
	malformedPolicy string,
) *ScoringService {
	if malformedPolicy == "" {
		malformedPolicy = config.MalformedSkip
	}
	return &ScoringService{
		scoreRepo:       scoreRepo,
		quizRepo:        quizRepo,
		questionRepo:    questionRepo,
		optionRepo:      optionRepo,
		malformedPolicy: malformedPolicy,
	}
}

// Submit обрабатывает сдачу теста пользователем.
// Политика обработки некорректных записей (без question_id или selected_option_id)
// задается конфигурацией: skip, reject или count_wrong.
// Вариант, не принадлежащий вопросу, учитывается в знаменателе, но никогда
// не засчитывается как правильный. Дубли вопросов записываются как есть.
func (s *ScoringService) Submit(userID uint, input SubmitInput) (*SubmitResult, error) {
	if input.QuizID == 0 {
		return nil, fmt.Errorf("%w: quiz_id is required", apperrors.ErrValidation)
	}

	// Проверяем существование теста
	if _, err := s.quizRepo.GetByID(input.QuizID); err != nil {
		return nil, err
	}

	totalQuestions := 0
	correctAnswers := 0
	answers := make([]entity.UserAnswer, 0, len(input.Answers))

	for _, a := range input.Answers {
		if a.QuestionID == 0 || a.SelectedOptionID == 0 {
			switch s.malformedPolicy {
			case config.MalformedReject:
				return nil, fmt.Errorf("%w: answer entry missing question_id or selected_option_id", apperrors.ErrValidation)
			case config.MalformedCountWrong:
				// Учитываем в знаменателе, ответ не записываем: ссылаться не на что
				totalQuestions++
			default:
				// skip: запись молча игнорируется
			}
			continue
		}

		totalQuestions++
		wasCorrect := false
		option, err := s.optionRepo.GetByIDForQuestion(a.SelectedOptionID, a.QuestionID)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				return nil, err
			}
			// Несуществующий или чужой вариант: попытка учитывается, ответ
			// записывается, правильным не считается
		} else {
			wasCorrect = option.IsCorrect
		}
		if wasCorrect {
			correctAnswers++
		}

		answers = append(answers, entity.UserAnswer{
			QuestionID:       a.QuestionID,
			SelectedOptionID: a.SelectedOptionID,
			WasCorrect:       wasCorrect,
		})
	}

	totalScored := 0.0
	if totalQuestions > 0 {
		totalScored = 100.0 * float64(correctAnswers) / float64(totalQuestions)
	}

	score := &entity.Score{
		QuizID:             input.QuizID,
		UserID:             userID,
		TimeStampOfAttempt: time.Now(),
		TotalScored:        totalScored,
	}

	if err := s.scoreRepo.CreateWithAnswers(score, answers); err != nil {
		log.Printf("[ScoringService] Ошибка сохранения результата пользователя #%d по тесту #%d: %v",
			userID, input.QuizID, err)
		return nil, err
	}

	log.Printf("[ScoringService] Пользователь #%d сдал тест #%d: %d/%d (%.2f%%)",
		userID, input.QuizID, correctAnswers, totalQuestions, totalScored)

	return &SubmitResult{
		ScoreID:        score.ID,
		QuizID:         input.QuizID,
		TotalQuestions: totalQuestions,
		CorrectAnswers: correctAnswers,
		TotalScored:    totalScored,
	}, nil
}

// GetUserScores возвращает все попытки пользователя, новые первыми
func (s *ScoringService) GetUserScores(userID uint) ([]entity.Score, error) {
	return s.scoreRepo.GetByUserID(userID)
}

// GetScoreDetails возвращает попытку с детализацией ответов.
// Возвращает ErrForbidden, если попытка принадлежит другому пользователю.
// Правильность берется из снапшота was_correct, а не пересчитывается.
func (s *ScoringService) GetScoreDetails(scoreID, userID uint) (*ScoreDetails, error) {
	score, err := s.scoreRepo.GetWithAnswers(scoreID)
	if err != nil {
		return nil, err
	}
	if score.UserID != userID {
		return nil, fmt.Errorf("%w: score belongs to another user", apperrors.ErrForbidden)
	}

	details := &ScoreDetails{
		Score:   score,
		Answers: make([]AnswerDetail, 0, len(score.Answers)),
	}

	for _, answer := range score.Answers {
		detail := AnswerDetail{
			QuestionID:       answer.QuestionID,
			SelectedOptionID: answer.SelectedOptionID,
			WasCorrect:       answer.WasCorrect,
		}

		// Вопрос или варианты могли быть удалены после попытки, это не ошибка
		question, qErr := s.questionRepo.GetByID(answer.QuestionID)
		if qErr == nil {
			detail.QuestionStatement = question.QuestionStatement
		} else if !errors.Is(qErr, apperrors.ErrNotFound) {
			return nil, qErr
		}

		options, oErr := s.optionRepo.GetByQuestionID(answer.QuestionID)
		if oErr != nil {
			return nil, oErr
		}
		detail.Options = options

		details.Answers = append(details.Answers, detail)
	}

	return details, nil
}

// GetUserStats возвращает агрегированную статистику пользователя
func (s *ScoringService) GetUserStats(userID uint) (*UserStats, error) {
	scores, err := s.scoreRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{
		UserID:        userID,
		TotalAttempts: len(scores),
	}
	if len(scores) == 0 {
		return stats, nil
	}

	sum := 0.0
	for _, score := range scores {
		sum += score.TotalScored
		if score.TotalScored > stats.BestScore {
			stats.BestScore = score.TotalScored
		}
	}
	stats.AverageScore = sum / float64(len(scores))

	// Попытки отсортированы по убыванию времени
	last := scores[0].TimeStampOfAttempt
	stats.LastAttemptAt = &last

	return stats, nil
}

// GetSummaryStats возвращает сводную статистику платформы:
// попытки за последние 7 дней и лучших пользователей по среднему результату
func (s *ScoringService) GetSummaryStats() (*SummaryStats, error) {
	since := time.Now().AddDate(0, 0, -7)
	attempts, err := s.scoreRepo.CountAttemptsByDay(since)
	if err != nil {
		return nil, err
	}

	topScorers, err := s.scoreRepo.GetTopScorers(5)
	if err != nil {
		return nil, err
	}

	return &SummaryStats{
		AttemptsByDay: attempts,
		TopScorers:    topScorers,
	}, nil
}
