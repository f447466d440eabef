package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/road_incident_system/internal/models"
)

// CreateIncidentRequest DTO для создания инцидента.
// Срок действия задаётся одним из трёх способов: явным expiryTime,
// парой durationValue+durationUnit, либо вовсе не задаётся - тогда сервер
// назначает createdAt + 24h.
// @Description DTO для создания инцидента
type CreateIncidentRequest struct {
	Type          string          `json:"type" validate:"required"`
	Coordinates   []models.LatLng `json:"coordinates" validate:"required,min=1"`
	Description   string          `json:"description,omitempty"`
	Status        string          `json:"status,omitempty"`
	ExpiryTime    *time.Time      `json:"expiryTime,omitempty"`
	DurationValue *int            `json:"durationValue,omitempty"`
	DurationUnit  *string         `json:"durationUnit,omitempty" validate:"omitempty,oneof=HOURS DAYS"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	Coordinates   []models.LatLng `json:"coordinates"`
	Description   string          `json:"description,omitempty"`
	Status        string          `json:"status"`
	DurationValue *int            `json:"durationValue,omitempty"`
	DurationUnit  *string         `json:"durationUnit,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	ExpiryTime    time.Time       `json:"expiryTime"`
}

// RegisterRequest DTO для регистрации учётной записи
// @Description DTO для регистрации учётной записи
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=255"`
	Password string `json:"password" validate:"required,min=1"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=admin user"`
}

// LoginRequest DTO для входа
// @Description DTO для входа
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse DTO с публичными полями учётной записи.
// Клиент хранит этот объект локально и сам решает, какой вид открывать.
type UserResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AuthResponse DTO для ответа на register/login
// @Description DTO для ответа на register/login
type AuthResponse struct {
	User UserResponse `json:"user"`
}

// HealthResponse DTO для ответа health-check
// @Description DTO для ответа health-check
type HealthResponse struct {
	Status          string    `json:"status"`
	Uptime          float64   `json:"uptime"`
	Timestamp       time.Time `json:"timestamp"`
	StoreConnection string    `json:"storeConnection"`
}
