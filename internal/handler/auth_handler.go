package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizmaster-api/internal/handler/dto"
	"github.com/yourusername/quizmaster-api/internal/service"
	"github.com/yourusername/quizmaster-api/pkg/auth"
)

// AuthHandler обрабатывает запросы, связанные с аутентификацией
type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
	jwtService  *auth.JWTService
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(
	authService *service.AuthService,
	userService *service.UserService,
	jwtService *auth.JWTService,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		jwtService:  jwtService,
	}
}

// SignupRequest представляет запрос на регистрацию
type SignupRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6,max=50"`
	FullName      string `json:"full_name" binding:"required,min=1,max=100"`
	Qualification string `json:"qualification" binding:"omitempty,max=100"`
	DOB           string `json:"dob" binding:"omitempty"`
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse структура для ответа с пользовательскими данными и токеном
type AuthResponse struct {
	User        *dto.UserResponse `json:"user"`
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	ExpiresIn   int               `json:"expires_in"` // в секундах
}

// Signup обрабатывает запрос на регистрацию
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Signup(service.SignupInput{
		Email:         req.Email,
		Password:      req.Password,
		FullName:      req.FullName,
		Qualification: req.Qualification,
		DOB:           req.DOB,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	log.Printf("[AuthHandler] Пользователь ID=%d (%s) успешно зарегистрирован", user.ID, user.Email)
	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// Login обрабатывает запрос на вход
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		User:        dto.NewUserResponse(user),
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   h.jwtService.ExpirationHrs() * 3600,
	})
}

// GetMe возвращает профиль текущего пользователя
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	user, err := h.userService.GetByID(userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}
