package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует маршруты API
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Маршруты для управления инцидентами (CRUD)
	incidents := api.Group("/incidents")
	{
		incidents.POST("", h.createIncident)
		incidents.GET("", h.listIncidents)
		incidents.GET("/:id", h.getIncident)
		incidents.DELETE("/:id", h.deleteIncident)
	}

	// Реестр типов инцидентов со стилями отрисовки
	api.GET("/incident-types", h.listIncidentTypes)

	// Маршруты аутентификации
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}
}

// RegisterSystemRoutes регистрирует маршруты вне группы /api.
// Health-check отдаётся даже при недоступном хранилище.
func (h *Handler) RegisterSystemRoutes(router *gin.Engine) {
	router.GET("/health", h.healthCheck)
}
