package service

import "errors"

// Сигнальные ошибки уровня бизнес-логики. Хэндлеры сопоставляют их
// с HTTP-кодами через errors.Is.
var (
	ErrIncidentNotFound   = errors.New("incident not found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
