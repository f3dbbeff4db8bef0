package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/quizmaster-api/internal/config"
	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	"github.com/yourusername/quizmaster-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizmaster-api/internal/pkg/errors"
)

// ExportService генерирует файлы экспорта результатов пользователя.
// Выполняется в фоновом воркере: отсутствие пользователя или результатов
// не считается ошибкой задачи, возвращается диагностическая строка.
type ExportService struct {
	userRepo  repository.UserRepository
	scoreRepo repository.ScoreRepository
	quizRepo  repository.QuizRepository
	emailSvc  EmailService
	cfg       config.ExportConfig
}

// NewExportService создает новый сервис экспорта
func NewExportService(
	userRepo repository.UserRepository,
	scoreRepo repository.ScoreRepository,
	quizRepo repository.QuizRepository,
	emailSvc EmailService,
	cfg config.ExportConfig,
) *ExportService {
	return &ExportService{
		userRepo:  userRepo,
		scoreRepo: scoreRepo,
		quizRepo:  quizRepo,
		emailSvc:  emailSvc,
		cfg:       cfg,
	}
}

// exportRow - одна строка файла экспорта
type exportRow struct {
	QuizID      uint
	DateOfQuiz  string
	Duration    int
	Remarks     string
	TotalScored float64
	AttemptedAt string
}

// Run выполняет экспорт результатов пользователя и отправляет ссылку на скачивание.
// Возвращаемая строка - диагностическое сообщение для лога воркера.
func (s *ExportService) Run(ctx context.Context, userID uint, format string) (string, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Sprintf("user %d not found, nothing to export", userID), nil
		}
		return "", err
	}

	scores, err := s.scoreRepo.GetByUserID(userID)
	if err != nil {
		return "", err
	}
	if len(scores) == 0 {
		return fmt.Sprintf("user %d has no quiz attempts, nothing to export", userID), nil
	}

	rows := make([]exportRow, 0, len(scores))
	quizCache := make(map[uint]*entity.Quiz)
	for _, score := range scores {
		row := exportRow{
			QuizID:      score.QuizID,
			TotalScored: score.TotalScored,
			AttemptedAt: score.TimeStampOfAttempt.Format("2006-01-02 15:04:05"),
		}

		quiz := quizCache[score.QuizID]
		if quiz == nil {
			loaded, qErr := s.quizRepo.GetByID(score.QuizID)
			if qErr != nil && !errors.Is(qErr, apperrors.ErrNotFound) {
				return "", qErr
			}
			if qErr == nil {
				quizCache[score.QuizID] = loaded
				quiz = loaded
			}
		}
		// Тест мог быть удален после попытки, строка все равно попадает в экспорт
		if quiz != nil {
			row.DateOfQuiz = quiz.DateOfQuiz.Format("2006-01-02")
			row.Duration = quiz.TimeDuration
			row.Remarks = quiz.Remarks
		}

		rows = append(rows, row)
	}

	if format != "csv" && format != "xlsx" {
		format = s.cfg.Format
	}
	if format != "xlsx" {
		format = "csv"
	}

	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	filename := fmt.Sprintf("user_%d_quiz_export.%s", userID, format)
	path := filepath.Join(s.cfg.Dir, filename)

	switch format {
	case "xlsx":
		err = s.writeXLSX(path, rows)
	default:
		err = s.writeCSV(path, rows)
	}
	if err != nil {
		return "", err
	}

	downloadURL := strings.TrimRight(s.cfg.BaseURL, "/") + "/" + filename
	body := fmt.Sprintf(
		"Hello %s,\n\nYour quiz export is ready. Download it here:\n%s\n\nIt contains %d attempts.",
		user.FullName, downloadURL, len(rows),
	)
	if err := s.emailSvc.Send(ctx, user.Email, "Your quiz export is ready", body); err != nil {
		return "", fmt.Errorf("export file written but notification failed: %w", err)
	}

	log.Printf("[ExportService] Экспорт для пользователя #%d готов: %s (%d строк)", userID, path, len(rows))
	return fmt.Sprintf("exported %d attempts for user %d to %s", len(rows), userID, filename), nil
}

var exportHeaders = []string{"Quiz ID", "Date of quiz", "Duration (min)", "Remarks", "Score (%)", "Attempted at"}

// writeCSV пишет файл экспорта в CSV с экранированием спецсимволов
func (s *ExportService) writeCSV(path string, rows []exportRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	// BOM для корректного отображения UTF-8 в Excel
	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	// Используем encoding/csv для правильного экранирования запятых/кавычек
	writer := csv.NewWriter(f)
	defer writer.Flush()

	if err := writer.Write(exportHeaders); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatUint(uint64(row.QuizID), 10),
			row.DateOfQuiz,
			strconv.Itoa(row.Duration),
			sanitizeForExcel(row.Remarks),
			fmt.Sprintf("%.2f", row.TotalScored),
			row.AttemptedAt,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// writeXLSX пишет файл экспорта в Excel с использованием StreamWriter
func (s *ExportService) writeXLSX(path string, rows []exportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Quiz attempts"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	headers := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		headers[i] = h
	}
	if err := sw.SetRow("A1", headers); err != nil {
		return err
	}

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		record := []interface{}{
			row.QuizID,
			row.DateOfQuiz,
			row.Duration,
			sanitizeForExcel(row.Remarks),
			row.TotalScored,
			row.AttemptedAt,
		}
		if err := sw.SetRow(cell, record); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// sanitizeForExcel нейтрализует строки, которые Excel/LibreOffice
// интерпретировали бы как формулы
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
