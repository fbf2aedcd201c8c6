package request

type CreateServiceRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Type        string  `json:"type" validate:"required,max=50"`
	Description *string `json:"description,omitempty"`
	BasePrice   float64 `json:"base_price" validate:"gte=0,lte=9999999999.99"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type UpdateServiceRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Type        string  `json:"type" validate:"required,max=50"`
	Description *string `json:"description,omitempty"`
	BasePrice   float64 `json:"base_price" validate:"gte=0,lte=9999999999.99"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive    *bool   `json:"is_active,omitempty"`
}
