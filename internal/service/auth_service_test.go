package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/quizmaster-api/internal/config"
	"github.com/yourusername/quizmaster-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizmaster-api/internal/pkg/errors"
	"github.com/yourusername/quizmaster-api/pkg/auth"
)

// newAuthService собирает сервис аутентификации с моками
func newAuthService(t *testing.T) (*AuthService, *MockUserRepository) {
	t.Helper()
	userRepo := new(MockUserRepository)
	jwtService, err := auth.NewJWTService("test-secret", 1)
	require.NoError(t, err)
	return NewAuthService(userRepo, jwtService), userRepo
}

// hashPassword возвращает bcrypt-хеш для тестовых пользователей
func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestSignup_NormalizesEmailAndDefaults(t *testing.T) {
	// Arrange
	svc, userRepo := newAuthService(t)
	userRepo.On("GetByEmail", "new@example.com").Return(nil, apperrors.ErrNotFound)
	userRepo.On("Create", mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "new@example.com" && u.Role == entity.RoleUser && u.Active
	})).Return(nil)

	// Act
	user, err := svc.Signup(SignupInput{
		Email:    "  NEW@Example.COM ",
		Password: "secret123",
		FullName: "  New User ",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, "New User", user.FullName)
	userRepo.AssertExpectations(t)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	// Arrange
	svc, userRepo := newAuthService(t)
	userRepo.On("GetByEmail", "taken@example.com").Return(&entity.User{ID: 1}, nil)

	// Act
	user, err := svc.Signup(SignupInput{Email: "taken@example.com", Password: "secret123"})

	// Assert
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	userRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSignup_InvalidDOB(t *testing.T) {
	// Arrange
	svc, userRepo := newAuthService(t)
	userRepo.On("GetByEmail", "new@example.com").Return(nil, apperrors.ErrNotFound)

	// Act
	user, err := svc.Signup(SignupInput{
		Email:    "new@example.com",
		Password: "secret123",
		DOB:      "31-12-1999",
	})

	// Assert
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLogin_Success(t *testing.T) {
	// Arrange
	svc, userRepo := newAuthService(t)
	userRepo.On("GetByEmail", "user@example.com").Return(&entity.User{
		ID:       5,
		Email:    "user@example.com",
		Password: hashPassword(t, "secret123"),
		Role:     entity.RoleUser,
		Active:   true,
	}, nil)

	// Act
	user, token, err := svc.Login("User@Example.com", "secret123")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(5), user.ID)
	assert.NotEmpty(t, token)
}

func TestLogin_WrongPassword(t *testing.T) {
	// Arrange
	svc, userRepo := newAuthService(t)
	userRepo.On("GetByEmail", "user@example.com").Return(&entity.User{
		ID:       5,
		Email:    "user@example.com",
		Password: hashPassword(t, "secret123"),
		Active:   true,
	}, nil)

	// Act
	_, _, err := svc.Login("user@example.com", "wrong-password")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	// Arrange: несуществующий email неотличим от неверного пароля
	svc, userRepo := newAuthService(t)
	userRepo.On("GetByEmail", "ghost@example.com").Return(nil, apperrors.ErrNotFound)

	// Act
	_, _, err := svc.Login("ghost@example.com", "whatever")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLogin_BlockedAccount(t *testing.T) {
	// Arrange
	svc, userRepo := newAuthService(t)
	userRepo.On("GetByEmail", "blocked@example.com").Return(&entity.User{
		ID:       5,
		Email:    "blocked@example.com",
		Password: hashPassword(t, "secret123"),
		Active:   false,
	}, nil)

	// Act
	_, _, err := svc.Login("blocked@example.com", "secret123")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestBootstrapAdmin_CreatesWhenMissing(t *testing.T) {
	// Arrange
	svc, userRepo := newAuthService(t)
	userRepo.On("GetByEmail", "admin@example.com").Return(nil, apperrors.ErrNotFound)
	userRepo.On("Create", mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "admin@example.com" && u.Role == entity.RoleAdmin && u.Active
	})).Return(nil)

	// Act
	err := svc.BootstrapAdmin(config.AdminConfig{
		Email:    "Admin@Example.com",
		Password: "admin-pass",
		FullName: "Admin",
	})

	// Assert
	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestBootstrapAdmin_SkipsWhenExists(t *testing.T) {
	// Arrange
	svc, userRepo := newAuthService(t)
	userRepo.On("GetByEmail", "admin@example.com").Return(&entity.User{ID: 1}, nil)

	// Act
	err := svc.BootstrapAdmin(config.AdminConfig{Email: "admin@example.com", Password: "admin-pass"})

	// Assert
	require.NoError(t, err)
	userRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestBootstrapAdmin_SkipsWhenNotConfigured(t *testing.T) {
	// Arrange
	svc, userRepo := newAuthService(t)

	// Act
	err := svc.BootstrapAdmin(config.AdminConfig{})

	// Assert
	require.NoError(t, err)
	userRepo.AssertNotCalled(t, "GetByEmail", mock.Anything)
}
