package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	"github.com/yourusername/quizmaster-api/internal/handler/dto"
	"github.com/yourusername/quizmaster-api/internal/service"
)

// QuizHandler обрабатывает запросы, связанные с тестами, вопросами и вариантами
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler создает новый обработчик тестов
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
	}
}

// isAdminRequest сообщает, выполняется ли запрос администратором
func isAdminRequest(c *gin.Context) bool {
	role, exists := c.Get("role")
	return exists && role.(string) == entity.RoleAdmin
}

// CreateQuiz обрабатывает запрос на создание теста
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req service.QuizInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.CreateQuiz(req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuizResponse(quiz, false, false))
}

// ListQuizzes возвращает список тестов, опционально отфильтрованный по главе
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	var (
		quizzes []entity.Quiz
		err     error
	)

	if chapterIDStr := c.Query("chapter_id"); chapterIDStr != "" {
		chapterID, parseErr := strconv.ParseUint(chapterIDStr, 10, 32)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chapter_id"})
			return
		}
		quizzes, err = h.quizService.GetQuizzesByChapter(uint(chapterID))
	} else {
		quizzes, err = h.quizService.GetQuizzes()
	}
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListQuizResponse(quizzes))
}

// GetQuiz возвращает тест вместе с вопросами.
// Правильные ответы видны только администратору.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	quiz, err := h.quizService.GetQuiz(quizID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz, true, isAdminRequest(c)))
}

// UpdateQuiz обновляет тест
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	var req service.QuizInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.UpdateQuiz(quizID, req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz, false, false))
}

// DeleteQuiz удаляет тест вместе с вопросами и вариантами
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	if err := h.quizService.DeleteQuiz(quizID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted"})
}

// GetQuizQuestions возвращает вопросы теста для прохождения.
// Флаг is_correct скрывается от обычных пользователей.
func (h *QuizHandler) GetQuizQuestions(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	questions, err := h.quizService.GetQuizQuestions(quizID)
	if err != nil {
		handleError(c, err)
		return
	}

	includeAnswers := isAdminRequest(c)
	list := make([]dto.QuestionResponse, len(questions))
	for i := range questions {
		list[i] = dto.NewQuestionResponse(&questions[i], includeAnswers)
	}

	c.JSON(http.StatusOK, list)
}

// CreateQuestion обрабатывает запрос на создание вопроса
func (h *QuizHandler) CreateQuestion(c *gin.Context) {
	var req service.QuestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.quizService.CreateQuestion(req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// UpdateQuestion обновляет вопрос
func (h *QuizHandler) UpdateQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	var req service.QuestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.quizService.UpdateQuestion(questionID, req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion удаляет вопрос вместе с вариантами
func (h *QuizHandler) DeleteQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	if err := h.quizService.DeleteQuestion(questionID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted"})
}

// CreateOption обрабатывает запрос на создание варианта ответа
func (h *QuizHandler) CreateOption(c *gin.Context) {
	var req service.OptionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	option, err := h.quizService.CreateOption(req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, option)
}

// UpdateOption обновляет вариант ответа
func (h *QuizHandler) UpdateOption(c *gin.Context) {
	optionID := c.MustGet("optionID").(uint)

	var req service.OptionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	option, err := h.quizService.UpdateOption(optionID, req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, option)
}

// DeleteOption удаляет вариант ответа
func (h *QuizHandler) DeleteOption(c *gin.Context) {
	optionID := c.MustGet("optionID").(uint)

	if err := h.quizService.DeleteOption(optionID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Option deleted"})
}
