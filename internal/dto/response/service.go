package response

import (
	"time"

	"booking-platform/internal/data/entity"
)

type ServiceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description *string   `json:"description,omitempty"`
	BasePrice   float64   `json:"base_price"`
	IsActive    bool      `json:"is_active"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ServiceToResponse(service *entity.Service) ServiceResponse {
	return ServiceResponse{
		ID:          service.ID.String(),
		Name:        service.Name,
		Type:        service.Type,
		Description: service.Description,
		BasePrice:   service.BasePrice,
		IsActive:    service.IsActive,
		ImageURL:    service.ImageURL,
		CreatedAt:   service.CreatedAt,
		UpdatedAt:   service.UpdatedAt,
	}
}
