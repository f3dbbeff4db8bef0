package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizmaster-api/internal/service"
)

// SearchHandler обрабатывает глобальный поиск административной панели
type SearchHandler struct {
	searchService *service.SearchService
}

// NewSearchHandler создает новый обработчик поиска
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// Search ищет пользователей, предметы и тесты по подстроке из query-параметра q
func (h *SearchHandler) Search(c *gin.Context) {
	results, err := h.searchService.Search(c.Query("q"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}
