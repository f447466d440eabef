package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/road_incident_system/internal/config"
	"github.com/shenikar/road_incident_system/internal/expiry"
	"github.com/shenikar/road_incident_system/internal/models"
	"github.com/sirupsen/logrus"
)

// IncidentRepository определяет контракт для работы с хранилищем инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	// Delete удаляет инцидент и сообщает, существовала ли запись.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// ListIncidents возвращает инциденты, новые первыми. При activeOnly
	// отфильтровываются записи с истёкшим expiry_time.
	ListIncidents(ctx context.Context, activeOnly bool) ([]*models.Incident, error)

	GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	GetListFromCache(ctx context.Context, activeOnly bool) ([]*models.Incident, error)
	SetListCache(ctx context.Context, activeOnly bool, incidents []*models.Incident) error
	InvalidateIncidentCaches(ctx context.Context, id uuid.UUID) error
}

// IncidentService определяет контракт для бизнес-логики жизненного цикла инцидентов
type IncidentService interface {
	CreateIncident(ctx context.Context, incident *models.Incident) error
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	DeleteIncident(ctx context.Context, id uuid.UUID) error
	ListIncidents(ctx context.Context, activeOnly bool) ([]*models.Incident, error)
}

type incidentService struct {
	repo   IncidentRepository
	logger *logrus.Logger
	cfg    *config.Config
}

func NewIncidentService(repo IncidentRepository, logger *logrus.Logger, cfg *config.Config) IncidentService {
	return &incidentService{
		repo:   repo,
		logger: logger,
		cfg:    cfg,
	}
}

// CreateIncident создает инцидент. Если срок действия не задан явно, он
// вычисляется из пары длительность+единица, иначе берётся срок по умолчанию
// (createdAt + 24h).
func (s *incidentService) CreateIncident(ctx context.Context, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "CreateIncident",
		"type":    incident.Type,
	})
	log.Info("Attempting to create a new incident")

	now := time.Now()
	if incident.ExpiryTime.IsZero() {
		incident.ExpiryTime = expiry.Resolve(now, nil, incident.DurationValue, incident.DurationUnit, s.cfg.DefaultExpiry)
	}
	if incident.Status == "" {
		incident.Status = models.StatusActive
	}
	if incident.Description == "" {
		incident.Description = models.DefaultDescription(incident.Type)
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not create incident: %w", err)
	}

	if err := s.repo.InvalidateIncidentCaches(ctx, incident.ID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident caches after create")
	}

	log.WithField("incident_id", incident.ID).Info("Incident created successfully")
	return nil
}

// GetIncident получает инцидент по ID: сначала кеш, затем бд
func (s *incidentService) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})
	log.Debug("Fetching incident by ID")

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident from cache")
	}
	if cached != nil {
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}
	return incident, nil
}

// DeleteIncident удаляет инцидент. Удаление несуществующего id не является
// ошибкой: операция идемпотентна с точки зрения вызывающего.
func (s *incidentService) DeleteIncident(ctx context.Context, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "DeleteIncident",
		"incident_id": id,
	})
	log.Info("Attempting to delete incident")

	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to delete incident in repository")
		return fmt.Errorf("service: could not delete incident: %w", err)
	}
	if !found {
		log.Warn("Incident was already absent on delete")
	}

	if err := s.repo.InvalidateIncidentCaches(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident caches after delete")
	}

	log.Info("Incident deleted successfully")
	return nil
}

// ListIncidents возвращает все инциденты, новые первыми, без пагинации:
// клиенты заменяют свою коллекцию целиком на каждом цикле опроса.
// При activeOnly сервер отдаёт только неистёкшие записи.
func (s *incidentService) ListIncidents(ctx context.Context, activeOnly bool) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "ListIncidents",
		"active_only": activeOnly,
	})
	log.Debug("Listing incidents")

	cached, err := s.repo.GetListFromCache(ctx, activeOnly)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident list from cache")
	}
	if cached != nil {
		return cached, nil
	}

	incidents, err := s.repo.ListIncidents(ctx, activeOnly)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	if err := s.repo.SetListCache(ctx, activeOnly, incidents); err != nil {
		log.WithError(err).Warn("Failed to cache incident list")
	}

	log.WithField("count", len(incidents)).Debug("Incidents listed successfully")
	return incidents, nil
}
