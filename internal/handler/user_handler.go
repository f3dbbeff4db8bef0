package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizmaster-api/internal/handler/dto"
	"github.com/yourusername/quizmaster-api/internal/service"
)

// UserHandler обрабатывает административные запросы управления пользователями
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler создает новый обработчик пользователей
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers возвращает пагинированный список пользователей
func (h *UserHandler) ListUsers(c *gin.Context) {
	pageStr := c.DefaultQuery("page", "1")
	pageSizeStr := c.DefaultQuery("page_size", "20")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize < 1 {
		pageSize = 20
	} else if pageSize > 100 {
		pageSize = 100
	}

	users, total, err := h.userService.List(page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedUsersResponse(users, total, page, pageSize))
}

// GetUser возвращает пользователя по ID
func (h *UserHandler) GetUser(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	user, err := h.userService.GetByID(userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// UpdateUser изменяет пользователя (блокировка, роль, профиль)
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req service.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Update(userID, req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// DeleteUser удаляет пользователя вместе с его результатами
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	if err := h.userService.Delete(userID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
