package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/quizmaster-api/internal/config"
	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	"github.com/yourusername/quizmaster-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizmaster-api/internal/pkg/errors"
	"github.com/yourusername/quizmaster-api/pkg/auth"
)

// SignupInput - данные регистрации нового пользователя
type SignupInput struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	FullName      string `json:"full_name"`
	Qualification string `json:"qualification"`
	DOB           string `json:"dob"` // "2006-01-02", опционально
}

// AuthService предоставляет методы регистрации и входа
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Signup регистрирует нового пользователя.
// Повторная регистрация email возвращает ErrConflict.
func (s *AuthService) Signup(input SignupInput) (*entity.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperrors.ErrValidation)
	}

	// Проверяем, не занят ли email
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrConflict)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	var dob *time.Time
	if input.DOB != "" {
		parsed, err := parseFlexibleDate(input.DOB)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid dob format, expected YYYY-MM-DD", apperrors.ErrValidation)
		}
		dob = &parsed
	}

	user := &entity.User{
		Email:         email,
		Password:      input.Password, // хешируется в BeforeSave
		FullName:      strings.TrimSpace(input.FullName),
		Qualification: strings.TrimSpace(input.Qualification),
		DOB:           dob,
		Role:          entity.RoleUser,
		Active:        true,
	}

	if err := s.userRepo.Create(user); err != nil {
		log.Printf("[AuthService] Ошибка создания пользователя %s: %v", email, err)
		return nil, err
	}

	log.Printf("[AuthService] Зарегистрирован пользователь #%d (%s)", user.ID, user.Email)
	return user, nil
}

// Login проверяет учетные данные и возвращает пользователя с JWT токеном.
// Неверный email, неверный пароль и заблокированная учетная запись
// возвращают одинаковый ErrUnauthorized.
func (s *AuthService) Login(email, password string) (*entity.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, "", err
	}

	if !user.CheckPassword(password) {
		return nil, "", fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	if !user.Active {
		return nil, "", fmt.Errorf("%w: account is blocked", apperrors.ErrUnauthorized)
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	log.Printf("[AuthService] Вход пользователя #%d (%s)", user.ID, user.Email)
	return user, token, nil
}

// BootstrapAdmin создает администратора при первом запуске, если его еще нет
func (s *AuthService) BootstrapAdmin(cfg config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		log.Println("[AuthService] Администратор не настроен в конфигурации, пропуск создания")
		return nil
	}

	email := strings.TrimSpace(strings.ToLower(cfg.Email))
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	admin := &entity.User{
		Email:    email,
		Password: cfg.Password,
		FullName: cfg.FullName,
		Role:     entity.RoleAdmin,
		Active:   true,
	}
	if err := s.userRepo.Create(admin); err != nil {
		return fmt.Errorf("failed to bootstrap admin user: %w", err)
	}

	log.Printf("[AuthService] Создан администратор #%d (%s)", admin.ID, admin.Email)
	return nil
}

// parseFlexibleDate разбирает дату в форматах "2006-01-02" или RFC3339
func parseFlexibleDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
