package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/road_incident_system/internal/config"
	"github.com/shenikar/road_incident_system/internal/models"
	"github.com/shenikar/road_incident_system/internal/service"
	"github.com/shenikar/road_incident_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakePinger имитирует проверку соединения с хранилищем
type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(ctx context.Context) error { return p.err }

// newTestHandler создает новый экземпляр Handler с мокированными сервисами
func newTestHandler(t *testing.T) (*mocks.MockIncidentService, *mocks.MockAuthService, *gin.Engine) {
	ctrl := gomock.NewController(t)
	mockIncidents := mocks.NewMockIncidentService(ctrl)
	mockAuth := mocks.NewMockAuthService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		DefaultExpiry: 24 * time.Hour,
	}

	handler := NewHandler(mockIncidents, mockAuth, logger, cfg, &fakePinger{})

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api")
	handler.RegisterRoutes(api)
	handler.RegisterSystemRoutes(router)

	return mockIncidents, mockAuth, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateIncident_Success(t *testing.T) {
	mockIncidents, _, router := newTestHandler(t)
	incidentID := uuid.New()
	reqBody := CreateIncidentRequest{
		Type:        models.TypeCollision,
		Coordinates: []models.LatLng{{13.62, 123.19}, {13.63, 123.20}},
		Description: "test",
	}
	createdAt := time.Now().Truncate(time.Second)

	mockIncidents.EXPECT().
		CreateIncident(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *models.Incident) error {
			// Симулируем работу сервиса: id, отметки времени, статус
			inc.ID = incidentID
			inc.CreatedAt = createdAt
			inc.ExpiryTime = createdAt.Add(24 * time.Hour)
			inc.Status = models.StatusActive
			return nil
		}).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/incidents", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp IncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, incidentID, resp.ID)
	assert.Equal(t, models.StatusActive, resp.Status)
	// Координаты проходят полный цикл без изменения порядка и значений
	assert.Equal(t, reqBody.Coordinates, resp.Coordinates)
	assert.WithinDuration(t, createdAt.Add(24*time.Hour), resp.ExpiryTime, time.Second)
}

func TestCreateIncident_InvalidJSON(t *testing.T) {
	mockIncidents, _, router := newTestHandler(t)

	mockIncidents.EXPECT().CreateIncident(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "POST", "/api/incidents", bytes.NewBufferString(`{"type": "COLLISION", "coordinates": "not-an-array"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error creating incident")
	assert.Contains(t, w.Body.String(), "details")
}

func TestCreateIncident_MissingCoordinates(t *testing.T) {
	mockIncidents, _, router := newTestHandler(t)
	reqBody := CreateIncidentRequest{ // Отсутствуют координаты
		Type: models.TypeCollision,
	}

	mockIncidents.EXPECT().CreateIncident(gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/incidents", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Coordinates' failed on the 'required' tag")
}

func TestCreateIncident_ServiceError(t *testing.T) {
	mockIncidents, _, router := newTestHandler(t)
	reqBody := CreateIncidentRequest{
		Type:        models.TypeCollision,
		Coordinates: []models.LatLng{{13.62, 123.19}},
	}
	serviceError := errors.New("insert failed")

	mockIncidents.EXPECT().
		CreateIncident(gomock.Any(), gomock.Any()).
		Return(serviceError).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/incidents", bytes.NewBuffer(bodyBytes))

	// Ошибка уровня хранилища на создании отдаётся как 400 с деталями
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error creating incident")
	assert.Contains(t, w.Body.String(), "insert failed")
}

func TestListIncidents_Success(t *testing.T) {
	mockIncidents, _, router := newTestHandler(t)
	expectedIncidents := []*models.Incident{
		{ID: uuid.New(), Type: models.TypeCollision, Coordinates: []models.LatLng{{13.62, 123.19}}},
		{ID: uuid.New(), Type: models.TypeConstruction, Coordinates: []models.LatLng{{13.64, 123.21}}},
	}

	mockIncidents.EXPECT().ListIncidents(gomock.Any(), false).Return(expectedIncidents, nil).Times(1)

	w := makeRequest(router, "GET", "/api/incidents", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []IncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, expectedIncidents[0].Type, resp[0].Type)
}

func TestListIncidents_ActiveFilter(t *testing.T) {
	mockIncidents, _, router := newTestHandler(t)

	mockIncidents.EXPECT().ListIncidents(gomock.Any(), true).Return([]*models.Incident{}, nil).Times(1)

	w := makeRequest(router, "GET", "/api/incidents?active=true", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListIncidents_ServiceError(t *testing.T) {
	mockIncidents, _, router := newTestHandler(t)
	serviceError := errors.New("query failed")

	mockIncidents.EXPECT().ListIncidents(gomock.Any(), false).Return(nil, serviceError).Times(1)

	w := makeRequest(router, "GET", "/api/incidents", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Error fetching incidents")
}

func TestGetIncident_Success(t *testing.T) {
	mockIncidents, _, router := newTestHandler(t)
	incidentID := uuid.New()
	expectedIncident := &models.Incident{
		ID:          incidentID,
		Type:        models.TypeFlooding,
		Coordinates: []models.LatLng{{13.62, 123.19}},
		Status:      models.StatusActive,
	}

	mockIncidents.EXPECT().GetIncident(gomock.Any(), incidentID).Return(expectedIncident, nil).Times(1)

	w := makeRequest(router, "GET", fmt.Sprintf("/api/incidents/%s", incidentID.String()), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, incidentID, resp.ID)
	assert.Equal(t, expectedIncident.Coordinates, resp.Coordinates)
}

func TestGetIncident_InvalidID(t *testing.T) {
	mockIncidents, _, router := newTestHandler(t)

	mockIncidents.EXPECT().GetIncident(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "GET", "/api/incidents/invalid-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid incident ID")
}

func TestGetIncident_NotFound(t *testing.T) {
	mockIncidents, _, router := newTestHandler(t)
	incidentID := uuid.New()
	serviceError := fmt.Errorf("service: could not get incident: %w", service.ErrIncidentNotFound)

	mockIncidents.EXPECT().GetIncident(gomock.Any(), incidentID).Return(nil, serviceError).Times(1)

	w := makeRequest(router, "GET", fmt.Sprintf("/api/incidents/%s", incidentID.String()), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Incident not found")
}

func TestGetIncident_ServiceError(t *testing.T) {
	mockIncidents, _, router := newTestHandler(t)
	incidentID := uuid.New()
	serviceError := errors.New("database error")

	mockIncidents.EXPECT().GetIncident(gomock.Any(), incidentID).Return(nil, serviceError).Times(1)

	w := makeRequest(router, "GET", fmt.Sprintf("/api/incidents/%s", incidentID.String()), nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Error fetching incident")
}

func TestDeleteIncident_Success(t *testing.T) {
	mockIncidents, _, router := newTestHandler(t)
	incidentID := uuid.New()

	mockIncidents.EXPECT().DeleteIncident(gomock.Any(), incidentID).Return(nil).Times(1)

	w := makeRequest(router, "DELETE", fmt.Sprintf("/api/incidents/%s", incidentID.String()), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Incident deleted successfully")
}

// Удаление по некорректному id также успешно: запись "отсутствует"
func TestDeleteIncident_MalformedID(t *testing.T) {
	mockIncidents, _, router := newTestHandler(t)

	mockIncidents.EXPECT().DeleteIncident(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "DELETE", "/api/incidents/invalid-uuid", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Incident deleted successfully")
}

func TestDeleteIncident_ServiceError(t *testing.T) {
	mockIncidents, _, router := newTestHandler(t)
	incidentID := uuid.New()
	serviceError := errors.New("connection refused")

	mockIncidents.EXPECT().DeleteIncident(gomock.Any(), incidentID).Return(serviceError).Times(1)

	w := makeRequest(router, "DELETE", fmt.Sprintf("/api/incidents/%s", incidentID.String()), nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Error deleting incident")
}

func TestListIncidentTypes_Success(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/incident-types", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []models.IncidentType
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Len(t, resp, len(models.IncidentTypes))
	assert.Equal(t, models.TypeCollision, resp[0].Code)
}

func TestHealthCheck_Success(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "connected", resp.StoreConnection)
}

// Health-check работает и при недоступном хранилище
func TestHealthCheck_StoreDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	handler := NewHandler(
		mocks.NewMockIncidentService(ctrl),
		mocks.NewMockAuthService(ctrl),
		logger,
		&config.Config{},
		&fakePinger{err: errors.New("connection refused")},
	)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.RegisterSystemRoutes(router)

	w := makeRequest(router, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "disconnected", resp.StoreConnection)
}
