package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/road_incident_system/internal/models"
	"github.com/shenikar/road_incident_system/internal/service"
)

// uniqueViolation - код ошибки PostgreSQL для нарушения уникальности
const uniqueViolation = "23505"

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) service.AccountRepository {
	return &AccountRepository{db: db}
}

// CreateAccount создает учётную запись. Конфликт по username
// транслируется в service.ErrUsernameTaken.
func (r *AccountRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (username, password, role)
		VALUES ($1, $2, $3) RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		account.Username,
		account.Password,
		account.Role,
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("username %q: %w", account.Username, service.ErrUsernameTaken)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByUsername возвращает учётную запись по точному совпадению имени
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	account := &models.Account{}
	query := `
		SELECT id, username, password, role, created_at
		FROM accounts
		WHERE username = $1;
	`
	err := r.db.QueryRow(ctx, query, username).Scan(
		&account.ID,
		&account.Username,
		&account.Password,
		&account.Role,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %q: %w", username, service.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("failed to get account by username: %w", err)
	}
	return account, nil
}
