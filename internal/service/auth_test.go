package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/road_incident_system/internal/models"
	"github.com/shenikar/road_incident_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestAuthService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestAuthService(t *testing.T) (*authService, *mocks.MockAccountRepository) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockAccountRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	service := NewAuthService(repoMock, logger)
	return service.(*authService), repoMock
}

func TestRegister_Success(t *testing.T) {
	// Подготовка
	service, repoMock := newTestAuthService(t)
	ctx := context.Background()

	// Ожидания
	repoMock.EXPECT().
		CreateAccount(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, acc *models.Account) error {
			acc.ID = uuid.New()
			return nil
		}).Times(1)

	// Действие
	account, err := service.Register(ctx, "operator", "secret", models.RoleAdmin)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "operator", account.Username)
	assert.Equal(t, models.RoleAdmin, account.Role)
}

func TestRegister_DefaultRole(t *testing.T) {
	// Подготовка
	service, repoMock := newTestAuthService(t)
	ctx := context.Background()

	// Ожидания
	repoMock.EXPECT().CreateAccount(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	account, err := service.Register(ctx, "viewer", "secret", "")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, account.Role)
}

func TestRegister_UsernameTaken(t *testing.T) {
	// Подготовка
	service, repoMock := newTestAuthService(t)
	ctx := context.Background()
	repoError := fmt.Errorf("username %q: %w", "operator", ErrUsernameTaken)

	// Ожидания
	repoMock.EXPECT().CreateAccount(ctx, gomock.Any()).Return(repoError).Times(1)

	// Действие
	account, err := service.Register(ctx, "operator", "secret", "")

	// Проверки
	require.Error(t, err)
	assert.Nil(t, account)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLogin_Success(t *testing.T) {
	// Подготовка
	service, repoMock := newTestAuthService(t)
	ctx := context.Background()
	stored := &models.Account{
		ID:       uuid.New(),
		Username: "operator",
		Password: "secret",
		Role:     models.RoleAdmin,
	}

	// Ожидания
	repoMock.EXPECT().GetByUsername(ctx, "operator").Return(stored, nil).Times(1)

	// Действие
	account, err := service.Login(ctx, "operator", "secret")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "operator", account.Username)
	assert.Equal(t, models.RoleAdmin, account.Role)
}

// Неизвестное имя и неверный пароль дают одну и ту же ошибку:
// перечисление имён пользователей по ответам невозможно.
func TestLogin_UnknownUsername(t *testing.T) {
	// Подготовка
	service, repoMock := newTestAuthService(t)
	ctx := context.Background()
	repoError := fmt.Errorf("account %q: %w", "ghost", ErrAccountNotFound)

	// Ожидания
	repoMock.EXPECT().GetByUsername(ctx, "ghost").Return(nil, repoError).Times(1)

	// Действие
	account, err := service.Login(ctx, "ghost", "secret")

	// Проверки
	require.Error(t, err)
	assert.Nil(t, account)
	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestLogin_WrongPassword(t *testing.T) {
	// Подготовка
	service, repoMock := newTestAuthService(t)
	ctx := context.Background()
	stored := &models.Account{
		Username: "operator",
		Password: "secret",
		Role:     models.RoleAdmin,
	}

	// Ожидания
	repoMock.EXPECT().GetByUsername(ctx, "operator").Return(stored, nil).Times(1)

	// Действие
	account, err := service.Login(ctx, "operator", "wrong")

	// Проверки
	require.Error(t, err)
	assert.Nil(t, account)
	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestLogin_RepoError(t *testing.T) {
	// Подготовка
	service, repoMock := newTestAuthService(t)
	ctx := context.Background()
	repoError := fmt.Errorf("connection refused")

	// Ожидания
	repoMock.EXPECT().GetByUsername(ctx, "operator").Return(nil, repoError).Times(1)

	// Действие
	account, err := service.Login(ctx, "operator", "secret")

	// Проверки
	require.Error(t, err)
	assert.Nil(t, account)
	assert.NotEqual(t, ErrInvalidCredentials, err)
}
