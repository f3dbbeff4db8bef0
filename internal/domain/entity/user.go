package entity

import (
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Роли пользователей
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет пользователя в системе
type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Email         string     `gorm:"size:120;not null;uniqueIndex" json:"email"`
	Password      string     `gorm:"size:100;not null" json:"-"`
	FullName      string     `gorm:"size:100;not null;default:''" json:"full_name"`
	Qualification string     `gorm:"size:100;not null;default:''" json:"qualification"`
	DOB           *time.Time `gorm:"type:date" json:"dob,omitempty"`
	Role          string     `gorm:"size:20;not null;default:'user'" json:"role"` // "user" или "admin"
	Active        bool       `gorm:"not null;default:true" json:"active"`

	Scores []Score `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// IsAdmin возвращает true, если пользователь имеет роль администратора
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// BeforeSave хеширует пароль перед сохранением, только если он не является bcrypt-хешем
func (u *User) BeforeSave(tx *gorm.DB) error {
	// Хешируем пароль только если он:
	// 1. Не пустой
	// 2. Не является уже bcrypt-хешем (начинается с "$2a$", "$2b$" или "$2y$")
	if len(u.Password) > 0 && !strings.HasPrefix(u.Password, "$2a$") &&
		!strings.HasPrefix(u.Password, "$2b$") && !strings.HasPrefix(u.Password, "$2y$") {
		// Используем стандартное значение cost factor для bcrypt
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[User.BeforeSave] Ошибка при хешировании пароля для email=%s: %v", u.Email, err)
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// CheckPassword проверяет, соответствует ли переданный пароль хешу
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
