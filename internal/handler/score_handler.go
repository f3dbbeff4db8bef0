package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	"github.com/yourusername/quizmaster-api/internal/domain/repository"
	"github.com/yourusername/quizmaster-api/internal/service"
)

// ScoreHandler обрабатывает сдачу тестов и просмотр результатов
type ScoreHandler struct {
	scoringService *service.ScoringService
	jobQueue       repository.JobQueue
}

// NewScoreHandler создает новый обработчик результатов
func NewScoreHandler(scoringService *service.ScoringService, jobQueue repository.JobQueue) *ScoreHandler {
	return &ScoreHandler{
		scoringService: scoringService,
		jobQueue:       jobQueue,
	}
}

// SubmitQuiz обрабатывает сдачу теста: подсчитывает результат и сохраняет
// попытку вместе с ответами в одной транзакции
func (h *ScoreHandler) SubmitQuiz(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req service.SubmitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.scoringService.Submit(userID, req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListMyScores возвращает все попытки текущего пользователя
func (h *ScoreHandler) ListMyScores(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	scores, err := h.scoringService.GetUserScores(userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, scores)
}

// GetScoreDetails возвращает попытку с детализацией ответов.
// Чужая попытка недоступна.
func (h *ScoreHandler) GetScoreDetails(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	scoreID := c.MustGet("scoreID").(uint)

	details, err := h.scoringService.GetScoreDetails(scoreID, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// GetMyStats возвращает агрегированную статистику текущего пользователя
func (h *ScoreHandler) GetMyStats(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	stats, err := h.scoringService.GetUserStats(userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetUserStats возвращает статистику указанного пользователя (администратор)
func (h *ScoreHandler) GetUserStats(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	stats, err := h.scoringService.GetUserStats(userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportRequest представляет запрос на экспорт результатов
type ExportRequest struct {
	Format string `json:"format" binding:"omitempty,oneof=csv xlsx"`
}

// RequestExport ставит задачу экспорта результатов пользователя в очередь.
// Сам экспорт выполняется воркером, клиенту сразу возвращается подтверждение.
func (h *ScoreHandler) RequestExport(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	// Тело запроса опционально: без него используется формат по умолчанию
	var req ExportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	job, err := entity.NewJob(entity.JobExportScores, entity.ExportPayload{
		UserID: userID,
		Format: req.Format,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	if err := h.jobQueue.Enqueue(c.Request.Context(), job); err != nil {
		handleError(c, err)
		return
	}

	log.Printf("[ScoreHandler] Задача экспорта %s поставлена в очередь для пользователя #%d", job.ID, userID)
	c.JSON(http.StatusAccepted, gin.H{
		"message": "Export started. You will receive an email with a download link.",
		"job_id":  job.ID,
	})
}

// GetSummaryStats возвращает сводную статистику платформы для администратора
func (h *ScoreHandler) GetSummaryStats(c *gin.Context) {
	stats, err := h.scoringService.GetSummaryStats()
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
