package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/road_incident_system/internal/config"
	"github.com/shenikar/road_incident_system/internal/models"
	"github.com/shenikar/road_incident_system/internal/service"
	"github.com/sirupsen/logrus"
)

// StorePinger проверяет доступность хранилища (реализуется pgxpool.Pool)
type StorePinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	incidentService service.IncidentService
	authService     service.AuthService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
	storePinger     StorePinger
	startedAt       time.Time
}

func NewHandler(incidentService service.IncidentService, authService service.AuthService, logger *logrus.Logger, cfg *config.Config, storePinger StorePinger) *Handler {
	return &Handler{
		incidentService: incidentService,
		authService:     authService,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
		storePinger:     storePinger,
		startedAt:       time.Now(),
	}
}

// @Summary Create a new incident
// @Description Create a new incident. Missing expiry resolves to createdAt+24h (or the duration pair).
// @Tags Incidents
// @Accept json
// @Produce json
// @Param incident body CreateIncidentRequest true "Incident creation request"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or store-level failure"
// @Router /incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	var input CreateIncidentRequest
	log := h.logger.WithField("method", "createIncident")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error creating incident", "details": err.Error()})
		return
	}

	// Проверка только формы полезной нагрузки: эквивалент приведения схемы,
	// пофакторная валидация значений не выполняется
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error creating incident", "details": err.Error()})
		return
	}

	model := DTOToIncidentModel(input)
	if err := h.incidentService.CreateIncident(c.Request.Context(), model); err != nil {
		log.WithError(err).Error("Failed to create incident in service")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error creating incident", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(model))
}

// @Summary Get the incident list
// @Description Get all incidents, newest first, without pagination. Pollers replace their collection wholesale on every call. Pass active=true to get only non-expired records.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param active query bool false "Return only non-expired incidents" default(false)
// @Success 200 {array} IncidentResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")
	activeOnly := c.Query("active") == "true"

	incidents, err := h.incidentService.ListIncidents(c.Request.Context(), activeOnly)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching incidents"})
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrIncidentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Incident not found"})
			return
		}
		log.WithError(err).Error("Failed to get incident from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching incident"})
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Delete an incident
// @Description Delete an incident by its ID. Deleting an absent id still succeeds.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} map[string]string "Incident deleted successfully"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [delete]
func (h *Handler) deleteIncident(c *gin.Context) {
	log := h.logger.WithField("method", "deleteIncident")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// Некорректный id трактуется как отсутствующая запись:
		// удаление идемпотентно и для вызывающего всегда успешно
		log.WithField("raw_id", c.Param("id")).Warn("Delete called with malformed incident ID")
		c.JSON(http.StatusOK, gin.H{"message": "Incident deleted successfully"})
		return
	}
	log = log.WithField("id", id)

	if err := h.incidentService.DeleteIncident(c.Request.Context(), id); err != nil {
		log.WithError(err).Error("Failed to delete incident in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting incident"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Incident deleted successfully"})
}

// @Summary Get the incident type registry
// @Description Get the fixed set of incident types with their rendering styles and default descriptions.
// @Tags Incidents
// @Accept json
// @Produce json
// @Success 200 {array} models.IncidentType
// @Router /incident-types [get]
func (h *Handler) listIncidentTypes(c *gin.Context) {
	c.JSON(http.StatusOK, models.IncidentTypes)
}

// @Summary Get application health status
// @Description Liveness probe. Served even when the store is unreachable.
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	storeConnection := "unknown"
	if h.storePinger != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := h.storePinger.Ping(pingCtx); err != nil {
			storeConnection = "disconnected"
		} else {
			storeConnection = "connected"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:          "ok",
		Uptime:          time.Since(h.startedAt).Seconds(),
		Timestamp:       time.Now(),
		StoreConnection: storeConnection,
	})
}
