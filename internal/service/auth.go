package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shenikar/road_incident_system/internal/models"
	"github.com/sirupsen/logrus"
)

// AccountRepository определяет контракт для работы с хранилищем учётных записей
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
}

// AuthService определяет контракт для регистрации и входа.
// Сессии и токены не выдаются: клиент сам хранит объект пользователя
// и повторно предъявляет его для маршрутизации по ролям.
type AuthService interface {
	Register(ctx context.Context, username, password, role string) (*models.Account, error)
	Login(ctx context.Context, username, password string) (*models.Account, error)
}

type authService struct {
	repo   AccountRepository
	logger *logrus.Logger
}

func NewAuthService(repo AccountRepository, logger *logrus.Logger) AuthService {
	return &authService{
		repo:   repo,
		logger: logger,
	}
}

// Register создаёт учётную запись. Роль по умолчанию - user.
func (s *authService) Register(ctx context.Context, username, password, role string) (*models.Account, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "auth",
		"method":   "Register",
		"username": username,
	})
	log.Info("Attempting to register account")

	if role == "" {
		role = models.RoleUser
	}

	account := &models.Account{
		Username: username,
		// TODO: хранить bcrypt-хэш вместо открытого пароля
		Password: password,
		Role:     role,
	}

	if err := s.repo.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			log.Warn("Username already taken")
			return nil, err
		}
		log.WithError(err).Error("Failed to create account in repository")
		return nil, fmt.Errorf("service: could not register account: %w", err)
	}

	log.Info("Account registered successfully")
	return account, nil
}

// Login проверяет учётные данные. Неизвестное имя и неверный пароль
// неразличимы для вызывающего: в обоих случаях ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, username, password string) (*models.Account, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "auth",
		"method":   "Login",
		"username": username,
	})
	log.Info("Attempting to login")

	account, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			log.Warn("Login failed: unknown username")
			return nil, ErrInvalidCredentials
		}
		log.WithError(err).Error("Failed to get account from repository")
		return nil, fmt.Errorf("service: could not login: %w", err)
	}

	// Сравнение паролей открытым текстом (унаследованное поведение)
	if account.Password != password {
		log.Warn("Login failed: wrong password")
		return nil, ErrInvalidCredentials
	}

	log.WithField("role", account.Role).Info("Login successful")
	return account, nil
}
