package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/shenikar/road_incident_system/internal/config"
	v1 "github.com/shenikar/road_incident_system/internal/handler/http/v1"
	"github.com/shenikar/road_incident_system/internal/repository"
	"github.com/shenikar/road_incident_system/internal/service"
	"github.com/shenikar/road_incident_system/pkg/logger"
	"github.com/shenikar/road_incident_system/pkg/postgres"
	redisclient "github.com/shenikar/road_incident_system/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/road_incident_system/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Road Incident System API
// @version 1.0
// @description Backend for the city road incident map: incident CRUD, type registry, polling clients.
// @host localhost:8080
// @BasePath /api
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций. Недоступность базы на старте не фатальна:
	// сервер продолжает работу в деградированном режиме и отдаёт /health.
	if err := runMigrations(cfg, log); err != nil {
		log.WithError(err).Warn("Failed to run database migrations, continuing in degraded mode")
	}

	// Подключение к PostgreSQL (пул создаётся лениво, без пинга)
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create PostgreSQL pool: %v", err)
	}
	defer dbpool.Close()

	if err := postgres.Ping(ctx, dbpool, 3*time.Second); err != nil {
		log.WithError(err).Warn("PostgreSQL is not reachable, continuing in degraded mode")
	} else {
		log.Info("Successfully connected to PostgreSQL")
	}

	// Инициализация Redis клиента. Без Redis сервер работает без кэша.
	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Warn("Failed to connect to Redis, caching disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info("Successfully connected to Redis")
	}

	// Инициализация репозиториев
	incidentRepo := repository.NewIncidentRepository(dbpool, redisClient, cfg.ListCacheTTL, cfg.IncidentCacheTTL)
	accountRepo := repository.NewAccountRepository(dbpool)

	// Инициализация сервисов
	incidentService := service.NewIncidentService(incidentRepo, log, cfg)
	authService := service.NewAuthService(accountRepo, log)

	// Инициализация хэндлеров
	handler := v1.NewHandler(incidentService, authService, log, cfg, dbpool)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api")
	handler.RegisterRoutes(api)
	handler.RegisterSystemRoutes(router)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
