package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizmaster-api/internal/service"
)

// ContentHandler обрабатывает запросы к иерархии контента: предметам и главам
type ContentHandler struct {
	contentService *service.ContentService
}

// NewContentHandler создает новый обработчик контента
func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
	}
}

// CreateSubject обрабатывает запрос на создание предмета
func (h *ContentHandler) CreateSubject(c *gin.Context) {
	var req service.SubjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject, err := h.contentService.CreateSubject(req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subject)
}

// ListSubjects возвращает все предметы
func (h *ContentHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.contentService.GetSubjects()
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, subjects)
}

// GetSubject возвращает предмет по ID
func (h *ContentHandler) GetSubject(c *gin.Context) {
	subjectID := c.MustGet("subjectID").(uint)

	subject, err := h.contentService.GetSubject(subjectID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, subject)
}

// UpdateSubject обновляет предмет
func (h *ContentHandler) UpdateSubject(c *gin.Context) {
	subjectID := c.MustGet("subjectID").(uint)

	var req service.SubjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject, err := h.contentService.UpdateSubject(subjectID, req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, subject)
}

// DeleteSubject удаляет предмет вместе с главами и тестами
func (h *ContentHandler) DeleteSubject(c *gin.Context) {
	subjectID := c.MustGet("subjectID").(uint)

	if err := h.contentService.DeleteSubject(subjectID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subject deleted"})
}

// CreateChapter обрабатывает запрос на создание главы
func (h *ContentHandler) CreateChapter(c *gin.Context) {
	var req service.ChapterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chapter, err := h.contentService.CreateChapter(req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, chapter)
}

// ListChaptersBySubject возвращает главы предмета
func (h *ContentHandler) ListChaptersBySubject(c *gin.Context) {
	subjectID := c.MustGet("subjectID").(uint)

	chapters, err := h.contentService.GetChaptersBySubject(subjectID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapters)
}

// GetChapter возвращает главу по ID
func (h *ContentHandler) GetChapter(c *gin.Context) {
	chapterID := c.MustGet("chapterID").(uint)

	chapter, err := h.contentService.GetChapter(chapterID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapter)
}

// UpdateChapter обновляет главу
func (h *ContentHandler) UpdateChapter(c *gin.Context) {
	chapterID := c.MustGet("chapterID").(uint)

	var req service.ChapterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chapter, err := h.contentService.UpdateChapter(chapterID, req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapter)
}

// DeleteChapter удаляет главу вместе с тестами
func (h *ContentHandler) DeleteChapter(c *gin.Context) {
	chapterID := c.MustGet("chapterID").(uint)

	if err := h.contentService.DeleteChapter(chapterID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chapter deleted"})
}
