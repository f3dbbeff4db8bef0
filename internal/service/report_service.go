package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/quizmaster-api/internal/config"
	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	"github.com/yourusername/quizmaster-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizmaster-api/internal/pkg/errors"
)

// ReportService рассылает напоминания неактивным пользователям и
// ежемесячные отчеты об активности. Повторная доставка за тот же период
// блокируется маркерами в Redis (SET NX): перезапуск задачи в пределах
// периода не приводит к дублям писем.
type ReportService struct {
	userRepo  repository.UserRepository
	scoreRepo repository.ScoreRepository
	cacheRepo repository.CacheRepository
	emailSvc  EmailService
	cfg       config.JobsConfig

	now func() time.Time
}

// NewReportService создает новый сервис отчетов
func NewReportService(
	userRepo repository.UserRepository,
	scoreRepo repository.ScoreRepository,
	cacheRepo repository.CacheRepository,
	emailSvc EmailService,
	cfg config.JobsConfig,
) *ReportService {
	if cfg.ReminderCutoffDays <= 0 {
		cfg.ReminderCutoffDays = 7
	}
	return &ReportService{
		userRepo:  userRepo,
		scoreRepo: scoreRepo,
		cacheRepo: cacheRepo,
		emailSvc:  emailSvc,
		cfg:       cfg,
		now:       time.Now,
	}
}

// SendDailyReminders отправляет напоминание каждому активному пользователю,
// чья последняя попытка отсутствует или старше порога неактивности.
// Возвращает количество отправленных писем.
func (s *ReportService) SendDailyReminders(ctx context.Context) (int, error) {
	users, err := s.userRepo.ListActiveByRole(entity.RoleUser)
	if err != nil {
		return 0, err
	}

	now := s.now()
	cutoff := now.AddDate(0, 0, -s.cfg.ReminderCutoffDays)
	sent := 0

	for _, user := range users {
		inactive := false
		latest, err := s.scoreRepo.GetLatestByUserID(user.ID)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				return sent, err
			}
			inactive = true // ни одной попытки
		} else if latest.TimeStampOfAttempt.Before(cutoff) {
			inactive = true
		}
		if !inactive {
			continue
		}

		// Маркер "уже отправлено сегодня": повторный запуск задачи за тот же
		// день не дублирует письмо
		markerKey := fmt.Sprintf("reminder:sent:%d:%s", user.ID, now.Format("2006-01-02"))
		ok, err := s.cacheRepo.SetNX(markerKey, 1, 48*time.Hour)
		if err != nil {
			return sent, err
		}
		if !ok {
			continue
		}

		body := fmt.Sprintf(
			"Hello %s,\n\nYou have not attempted a quiz in over %d days. "+
				"New quizzes are waiting for you:\n%s\n\nKeep practicing!",
			user.FullName, s.cfg.ReminderCutoffDays, s.cfg.AppURL,
		)
		if err := s.emailSvc.Send(ctx, user.Email, "We miss you at Quiz Master", body); err != nil {
			// Письмо этому пользователю потеряно, остальных это не останавливает
			log.Printf("[ReportService] Ошибка отправки напоминания пользователю #%d: %v", user.ID, err)
			continue
		}
		sent++
	}

	log.Printf("[ReportService] Напоминания отправлены: %d из %d пользователей", sent, len(users))
	return sent, nil
}

// SendMonthlyReports отправляет каждому активному пользователю отчет
// за предыдущий календарный месяц. Отчет уходит и при нулевой активности.
// Возвращает количество отправленных писем.
func (s *ReportService) SendMonthlyReports(ctx context.Context) (int, error) {
	users, err := s.userRepo.ListActiveByRole(entity.RoleUser)
	if err != nil {
		return 0, err
	}

	from, to := previousMonthWindow(s.now())
	period := from.Format("January 2006")
	sent := 0

	for _, user := range users {
		markerKey := fmt.Sprintf("report:sent:%d:%s", user.ID, from.Format("2006-01"))
		ok, err := s.cacheRepo.SetNX(markerKey, 1, 40*24*time.Hour)
		if err != nil {
			return sent, err
		}
		if !ok {
			continue
		}

		scores, err := s.scoreRepo.GetByUserInWindow(user.ID, from, to)
		if err != nil {
			return sent, err
		}

		avg := 0.0
		if len(scores) > 0 {
			sum := 0.0
			for _, score := range scores {
				sum += score.TotalScored
			}
			avg = sum / float64(len(scores))
		}

		body := fmt.Sprintf(
			"Hello %s,\n\nYour activity report for %s:\n\n"+
				"Quizzes attempted: %d\nAverage score: %.2f%%\n\n%s",
			user.FullName, period, len(scores), avg, s.cfg.AppURL,
		)
		subject := fmt.Sprintf("Your activity report for %s", period)
		if err := s.emailSvc.Send(ctx, user.Email, subject, body); err != nil {
			log.Printf("[ReportService] Ошибка отправки отчета пользователю #%d: %v", user.ID, err)
			continue
		}
		sent++
	}

	log.Printf("[ReportService] Отчеты за %s отправлены: %d из %d пользователей", period, sent, len(users))
	return sent, nil
}

// previousMonthWindow возвращает границы предыдущего календарного месяца [from, to)
func previousMonthWindow(now time.Time) (time.Time, time.Time) {
	firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return firstOfCurrent.AddDate(0, -1, 0), firstOfCurrent
}
