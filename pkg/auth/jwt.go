package auth

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/yourusername/quizmaster-api/internal/domain/entity"
)

// JWTCustomClaims содержит пользовательские поля для токена
type JWTCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService предоставляет методы для работы с JWT
type JWTService struct {
	secret        []byte
	expirationHrs int
}

// NewJWTService создает новый сервис JWT
func NewJWTService(secret string, expirationHrs int) (*JWTService, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required for JWTService")
	}
	// Default expiry if not set or invalid
	if expirationHrs <= 0 {
		expirationHrs = 24
	}
	return &JWTService{
		secret:        []byte(secret),
		expirationHrs: expirationHrs,
	}, nil
}

// ExpirationHrs возвращает срок действия выдаваемых токенов в часах
func (s *JWTService) ExpirationHrs() int {
	return s.expirationHrs
}

// GenerateToken создает новый JWT токен для пользователя
func (s *JWTService) GenerateToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := &JWTCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour * time.Duration(s.expirationHrs))),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "quizmaster-api",
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		log.Printf("[JWT] Ошибка генерации токена для пользователя ID=%d: %v", user.ID, err)
		return "", err
	}
	return tokenString, nil
}

// ParseToken проверяет и расшифровывает JWT токен
func (s *JWTService) ParseToken(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		// Более подробное логирование ошибок JWT
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			switch {
			case ve.Errors&jwt.ValidationErrorMalformed != 0:
				log.Printf("[JWT] Ошибка: Токен имеет неверный формат")
				return nil, errors.New("token is malformed")
			case ve.Errors&jwt.ValidationErrorExpired != 0:
				log.Printf("[JWT] Ошибка: Истек срок действия токена для пользователя ID=%d", claims.UserID)
				return nil, errors.New("token is expired")
			case ve.Errors&jwt.ValidationErrorNotValidYet != 0:
				log.Printf("[JWT] Ошибка: Токен еще не действителен")
				return nil, errors.New("token not valid yet")
			case ve.Errors&jwt.ValidationErrorSignatureInvalid != 0:
				log.Printf("[JWT] Ошибка: Неверная подпись токена для пользователя ID=%d", claims.UserID)
				return nil, errors.New("signature is invalid")
			default:
				log.Printf("[JWT] Ошибка при разборе токена: %v", err)
				return nil, errors.New("token validation failed")
			}
		}
		log.Printf("[JWT] Ошибка при разборе токена: %v", err)
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
