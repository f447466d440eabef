package models

import (
	"time"

	"github.com/google/uuid"
)

// LatLng - координатная пара [широта, долгота].
// Порядок элементов соответствует формату фронтенда (Leaflet).
type LatLng [2]float64

func (p LatLng) Lat() float64 { return p[0] }
func (p LatLng) Lng() float64 { return p[1] }

// StatusActive - значение статуса по умолчанию. Поле описательное,
// переходы состояний никем не контролируются.
const StatusActive = "ACTIVE"

// Incident - дорожный инцидент на карте города.
// Coordinates хранит упорядоченную последовательность точек: одна точка -
// точечный инцидент, несколько точек - путь (например, маршрут объезда).
type Incident struct {
	ID            uuid.UUID `json:"id"`
	Type          string    `json:"type"`
	Coordinates   []LatLng  `json:"coordinates"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	DurationValue *int      `json:"durationValue,omitempty"`
	DurationUnit  *string   `json:"durationUnit,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	ExpiryTime    time.Time `json:"expiryTime"`
}

// Expired сообщает, истёк ли инцидент к моменту now.
// Истечение - вычисляемое свойство, записи из хранилища не удаляются.
func (i *Incident) Expired(now time.Time) bool {
	return !i.ExpiryTime.After(now)
}
