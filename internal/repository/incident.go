package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/road_incident_system/internal/models"
	"github.com/shenikar/road_incident_system/internal/service"
)

const (
	listCacheKeyAll    = "incidents:all"
	listCacheKeyActive = "incidents:active"
)

type IncidentRepository struct {
	db               *pgxpool.Pool
	redisClient      *redis.Client
	listCacheTTL     time.Duration
	incidentCacheTTL time.Duration
}

// NewIncidentRepository создает репозиторий инцидентов. redisClient может
// быть nil: кеширование тогда молча отключается (деградированный режим).
func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client, listCacheTTL, incidentCacheTTL time.Duration) service.IncidentRepository {
	return &IncidentRepository{
		db:               db,
		redisClient:      redisClient,
		listCacheTTL:     listCacheTTL,
		incidentCacheTTL: incidentCacheTTL,
	}
}

// Create создает новую запись об инциденте в бд.
// Координаты сериализуются в JSONB как есть: порядок и значения пар
// [lat, lng] должны пережить полный цикл записи-чтения без искажений.
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	coords, err := json.Marshal(incident.Coordinates)
	if err != nil {
		return fmt.Errorf("failed to marshal incident coordinates: %w", err)
	}

	query := `
		INSERT INTO incidents (type, coordinates, description, status, duration_value, duration_unit, expiry_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at;
	`
	err = r.db.QueryRow(ctx, query,
		incident.Type,
		coords,
		incident.Description,
		incident.Status,
		incident.DurationValue,
		incident.DurationUnit,
		incident.ExpiryTime,
	).Scan(&incident.ID, &incident.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID возвращает инцидент по его UUID
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `
		SELECT id, type, coordinates, description, status, duration_value, duration_unit, created_at, expiry_time
		FROM incidents
		WHERE id = $1;
	`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, service.ErrIncidentNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// Delete удаляет инцидент. Возвращает false, если записи не было:
// для вызывающего это не ошибка, удаление идемпотентно.
func (r *IncidentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM incidents WHERE id = $1;`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete incident: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// ListIncidents возвращает инциденты, новые первыми. Пагинации нет:
// клиенты опроса всегда забирают коллекцию целиком.
func (r *IncidentRepository) ListIncidents(ctx context.Context, activeOnly bool) ([]*models.Incident, error) {
	query := `
		SELECT id, type, coordinates, description, status, duration_value, duration_unit, created_at, expiry_time
		FROM incidents
	`
	if activeOnly {
		query += ` WHERE expiry_time > NOW()`
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	var coords []byte
	err := row.Scan(
		&incident.ID,
		&incident.Type,
		&coords,
		&incident.Description,
		&incident.Status,
		&incident.DurationValue,
		&incident.DurationUnit,
		&incident.CreatedAt,
		&incident.ExpiryTime,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(coords, &incident.Coordinates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident coordinates: %w", err)
	}
	return incident, nil
}

// GetIncidentFromCache пытается получить инцидент из Redis
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	if r.redisClient == nil {
		return nil, nil
	}
	key := fmt.Sprintf("incident:%s", id.String())
	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache сохраняет инцидент в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	if r.redisClient == nil {
		return nil
	}
	key := fmt.Sprintf("incident:%s", incident.ID.String())
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, key, val, r.incidentCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// GetListFromCache пытается получить список инцидентов из Redis.
// Возвращает (nil, nil) при промахе.
func (r *IncidentRepository) GetListFromCache(ctx context.Context, activeOnly bool) ([]*models.Incident, error) {
	if r.redisClient == nil {
		return nil, nil
	}
	val, err := r.redisClient.Get(ctx, listCacheKey(activeOnly)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident list from cache: %w", err)
	}

	var incidents []*models.Incident
	if err := json.Unmarshal(val, &incidents); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident list from cache: %w", err)
	}
	return incidents, nil
}

// SetListCache сохраняет список инцидентов в Redis. TTL короткий,
// порядка интервала опроса мастер-консоли.
func (r *IncidentRepository) SetListCache(ctx context.Context, activeOnly bool, incidents []*models.Incident) error {
	if r.redisClient == nil {
		return nil
	}
	val, err := json.Marshal(incidents)
	if err != nil {
		return fmt.Errorf("failed to marshal incident list for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, listCacheKey(activeOnly), val, r.listCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident list in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCaches удаляет из Redis единичный инцидент и оба
// варианта списка. Вызывается после create/delete.
func (r *IncidentRepository) InvalidateIncidentCaches(ctx context.Context, id uuid.UUID) error {
	if r.redisClient == nil {
		return nil
	}
	key := fmt.Sprintf("incident:%s", id.String())
	if err := r.redisClient.Del(ctx, key, listCacheKeyAll, listCacheKeyActive).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident caches: %w", err)
	}
	return nil
}

func listCacheKey(activeOnly bool) string {
	if activeOnly {
		return listCacheKeyActive
	}
	return listCacheKeyAll
}
