package v1

import "github.com/shenikar/road_incident_system/internal/models"

// DTOToIncidentModel преобразует DTO создания в доменную модель.
// Значения по умолчанию (статус, описание, срок действия) назначает сервис.
func DTOToIncidentModel(dto CreateIncidentRequest) *models.Incident {
	incident := &models.Incident{
		Type:          dto.Type,
		Coordinates:   dto.Coordinates,
		Description:   dto.Description,
		Status:        dto.Status,
		DurationValue: dto.DurationValue,
		DurationUnit:  dto.DurationUnit,
	}
	if dto.ExpiryTime != nil {
		incident.ExpiryTime = *dto.ExpiryTime
	}
	return incident
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:            model.ID,
		Type:          model.Type,
		Coordinates:   model.Coordinates,
		Description:   model.Description,
		Status:        model.Status,
		DurationValue: model.DurationValue,
		DurationUnit:  model.DurationUnit,
		CreatedAt:     model.CreatedAt,
		ExpiryTime:    model.ExpiryTime,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// ModelToUserResponse преобразует учётную запись в публичный DTO
func ModelToUserResponse(model *models.Account) UserResponse {
	return UserResponse{
		Username: model.Username,
		Role:     model.Role,
	}
}
