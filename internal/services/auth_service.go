package services

import (
	"errors"
	"strings"
	"time"

	"github.com/oakhollow/spotlight/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("weak password")
)

const minPasswordLength = 8

type AuthUserRepository interface {
	CountUsers() (int64, error)
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	StampLastLogin(userID uint, at time.Time) error
}

type AuthService struct {
	users AuthUserRepository
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users}
}

func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Register creates an account with the user role. The very first account
// becomes the approver so a fresh install has someone who can review and
// publish; further role changes belong to the administrator.
func (service *AuthService) Register(email string, name string, password string) (models.User, error) {
	normalized := NormalizeEmail(email)

	if len(password) < minPasswordLength {
		return models.User{}, ErrWeakPassword
	}

	exists, err := service.users.ExistsByNormalizedEmail(normalized)
	if err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	role := models.RoleUser
	count, err := service.users.CountUsers()
	if err != nil {
		return models.User{}, err
	}
	if count == 0 {
		role = models.RoleApprover
	}

	user := models.User{
		Email:        normalized,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Login verifies the credentials and stamps last_login_at.
func (service *AuthService) Login(email string, password string) (models.User, error) {
	normalized := NormalizeEmail(email)

	user, err := service.users.FindByNormalizedEmail(normalized)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}

	now := time.Now()
	if err := service.users.StampLastLogin(user.ID, now); err != nil {
		return models.User{}, err
	}
	user.LastLoginAt = &now
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}
