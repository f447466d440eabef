package models

// IncidentType описывает один тип инцидента из фиксированного набора:
// стиль отрисовки на карте и описание по умолчанию.
type IncidentType struct {
	Code        string `json:"type"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	DashArray   string `json:"dashArray,omitempty"`
	Weight      int    `json:"weight"`
}

// Коды типов инцидентов.
const (
	TypeCollision    = "COLLISION"
	TypeConstruction = "CONSTRUCTION"
	TypeFlooding     = "FLOODING"
	TypeDetourOneWay = "DETOUR_ONE_WAY"
	TypeDetourTwoWay = "DETOUR_TWO_WAY"
	TypePublicEvent  = "PUBLIC_EVENT"
	TypeRoadClosure  = "ROAD_CLOSURE"
)

// IncidentTypes - реестр типов в порядке отображения в легенде.
var IncidentTypes = []IncidentType{
	{
		Code:        TypeCollision,
		Name:        "Collision",
		Color:       "#FF0000",
		Description: "Vehicle collision or accident",
		Icon:        "car-collision",
		DashArray:   "10, 10",
		Weight:      4,
	},
	{
		Code:        TypeConstruction,
		Name:        "Construction",
		Color:       "#FFA500",
		Description: "Road construction or maintenance",
		Icon:        "construction",
		DashArray:   "15, 10",
		Weight:      4,
	},
	{
		Code:        TypeFlooding,
		Name:        "Flooding",
		Color:       "#800080",
		Description: "Flooded road section",
		Icon:        "wave",
		DashArray:   "5, 10",
		Weight:      4,
	},
	{
		Code:        TypeDetourOneWay,
		Name:        "Detour (one-way)",
		Color:       "#00FF00",
		Description: "Alternative route, one direction",
		Icon:        "detour-rightonly",
		Weight:      5,
	},
	{
		Code:        TypeDetourTwoWay,
		Name:        "Detour (two-way)",
		Color:       "#00AA00",
		Description: "Alternative route, both directions",
		Icon:        "detour-bothway",
		Weight:      5,
	},
	{
		Code:        TypePublicEvent,
		Name:        "Public Event",
		Color:       "#1E90FF",
		Description: "Public event affecting traffic",
		Icon:        "publicevent",
		Weight:      5,
	},
	{
		Code:        TypeRoadClosure,
		Name:        "Road Closure",
		Color:       "#000000",
		Description: "Road closed to traffic",
		Icon:        "closedroad",
		Weight:      5,
	},
}

// TypeByCode возвращает тип инцидента по его коду.
func TypeByCode(code string) (IncidentType, bool) {
	for _, t := range IncidentTypes {
		if t.Code == code {
			return t, true
		}
	}
	return IncidentType{}, false
}

// DefaultDescription возвращает описание по умолчанию для известного типа,
// либо пустую строку для неизвестного.
func DefaultDescription(code string) string {
	if t, ok := TypeByCode(code); ok {
		return t.Description
	}
	return ""
}
