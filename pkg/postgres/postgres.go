package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/road_incident_system/internal/config"
)

// NewPostgresDB создает новый пул соединений PostgreSQL.
// Пул создаётся лениво: недоступность базы на старте не является ошибкой,
// сервер должен продолжать отдавать /health (деградированный режим).
func NewPostgresDB(ctx context.Context, appCfg *config.Config) (*pgxpool.Pool, error) {
	cfgPool, err := pgxpool.ParseConfig(appCfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка при разборе конфигурации postgres: %w", err)
	}

	dbpool, err := pgxpool.NewWithConfig(ctx, cfgPool)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать пул соединений: %w", err)
	}

	return dbpool, nil
}

// Ping проверяет соединение с базой данных с коротким таймаутом.
func Ping(ctx context.Context, dbpool *pgxpool.Pool, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return dbpool.Ping(pingCtx)
}
