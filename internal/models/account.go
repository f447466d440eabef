package models

import (
	"time"

	"github.com/google/uuid"
)

// Роли учётных записей.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Account - учётная запись оператора или пользователя.
// Пароль хранится в открытом виде (поведение унаследовано от исходной
// системы, см. DESIGN.md).
type Account struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
