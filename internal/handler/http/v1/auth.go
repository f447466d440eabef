package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/road_incident_system/internal/service"
)

// Сессии и токены не выдаются: клиент сохраняет объект пользователя
// локально и использует его для маршрутизации по ролям. Мутации инцидентов
// сервер повторно не авторизует (унаследованное поведение, см. DESIGN.md).

// @Summary Register a new account
// @Description Register a new account. Role defaults to "user".
// @Tags Auth
// @Accept json
// @Produce json
// @Param account body RegisterRequest true "Registration request"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} map[string]string "Invalid request body or username taken"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input RegisterRequest
	log := h.logger.WithField("method", "register")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.authService.Register(c.Request.Context(), input.Username, input.Password, input.Role)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username already taken"})
			return
		}
		log.WithError(err).Error("Failed to register account in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error registering account"})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{User: ModelToUserResponse(account)})
}

// @Summary Login
// @Description Check credentials and return the user object. No session or token is issued.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login request"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	log := h.logger.WithField("method", "login")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.authService.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		// Одинаковый ответ для неизвестного имени и неверного пароля
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		log.WithError(err).Error("Failed to login in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error logging in"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{User: ModelToUserResponse(account)})
}
