package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/road_incident_system/internal/models"
)

// Client - HTTP-клиент API инцидентов. Используется утилитой наблюдения
// (cmd/watch) и пригоден для интеграционных сценариев.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// apiError - тело ошибки сервера: {"error": "...", "details": "..."}
type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ListIncidents запрашивает полный список инцидентов.
// activeOnly добавляет фильтр active=true на стороне сервера.
func (c *Client) ListIncidents(ctx context.Context, activeOnly bool) ([]*models.Incident, error) {
	endpoint := c.baseURL + "/api/incidents"
	if activeOnly {
		endpoint += "?active=true"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("apiclient: could not build request: %w", err)
	}

	var incidents []*models.Incident
	if err := c.do(req, http.StatusOK, &incidents); err != nil {
		return nil, err
	}
	return incidents, nil
}

// GetIncident запрашивает один инцидент по id
func (c *Client) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	endpoint := fmt.Sprintf("%s/api/incidents/%s", c.baseURL, url.PathEscape(id.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("apiclient: could not build request: %w", err)
	}

	var incident models.Incident
	if err := c.do(req, http.StatusOK, &incident); err != nil {
		return nil, err
	}
	return &incident, nil
}

// CreateIncident отправляет инцидент на создание и возвращает запись
// с назначенными сервером id, created_at и expiry_time
func (c *Client) CreateIncident(ctx context.Context, incident *models.Incident) (*models.Incident, error) {
	body, err := json.Marshal(incident)
	if err != nil {
		return nil, fmt.Errorf("apiclient: could not marshal incident: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/incidents", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("apiclient: could not build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var created models.Incident
	if err := c.do(req, http.StatusCreated, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteIncident удаляет инцидент. Успешен и для отсутствующего id.
func (c *Client) DeleteIncident(ctx context.Context, id uuid.UUID) error {
	endpoint := fmt.Sprintf("%s/api/incidents/%s", c.baseURL, url.PathEscape(id.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("apiclient: could not build request: %w", err)
	}

	return c.do(req, http.StatusOK, nil)
}

func (c *Client) do(req *http.Request, wantStatus int, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var apiErr apiError
		if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("apiclient: server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("apiclient: server returned unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("apiclient: could not decode response: %w", err)
	}
	return nil
}
