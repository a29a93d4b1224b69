package services

import (
	"errors"
	"strings"

	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterUser creates a user with a bcrypt-hashed password. Duplicate
// usernames are caught by the unique index, not a pre-check, so two
// concurrent registrations of the same name yield exactly one success.
func RegisterUser(db *gorm.DB, username string, password string) (models.User, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(passwordHash),
	}

	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, apperrors.Conflict("Username already registered")
		}
		return models.User{}, err
	}

	return user, nil
}

// AuthenticateUser verifies the credentials. Unknown username and wrong
// password fail with the same message so usernames cannot be enumerated.
func AuthenticateUser(db *gorm.DB, username string, password string) (models.User, error) {
	var user models.User

	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, apperrors.Unauthorized("Incorrect username or password")
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, apperrors.Unauthorized("Incorrect username or password")
	}

	return user, nil
}

// SearchUsers matches usernames by case-insensitive substring, capped at
// limit. An empty query is a validation error, not an empty result.
func SearchUsers(db *gorm.DB, query string, limit int) ([]models.User, error) {
	if query == "" {
		return nil, apperrors.Validation("Search query must not be empty")
	}

	var users []models.User

	// LIKE wildcards in the query are passed through unescaped: "%" or
	// "_" widen the match. Usernames carry no secrets beyond existence,
	// and search is already authenticated-only.
	pattern := "%" + strings.ToLower(query) + "%"

	if err := db.Where("LOWER(username) LIKE ?", pattern).Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}
