package adaptor

import (
	"net/http"

	"booking-platform/internal/dto/request"
	"booking-platform/internal/usecase"
	"booking-platform/pkg/utils"

	"go.uber.org/zap"
)

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// ListServices handles GET /api/services (public)
func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListActive(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list services")
		return
	}

	utils.ResponseSuccess(w, "success", services)
}

// GetService handles GET /api/services/{id} (public)
func (h *CatalogHandler) GetService(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "service")
	if !ok {
		return
	}

	service, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get service")
		return
	}

	utils.ResponseSuccess(w, "success", service)
}

// CreateService handles POST /api/admin/services
func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req request.CreateServiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	service, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create service")
		return
	}

	utils.ResponseCreated(w, "Service created", service)
}

// UpdateService handles PUT /api/admin/services/{id}
func (h *CatalogHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "service")
	if !ok {
		return
	}

	var req request.UpdateServiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	service, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update service")
		return
	}

	utils.ResponseSuccess(w, "Service updated", service)
}

// DeactivateService handles DELETE /api/admin/services/{id}
func (h *CatalogHandler) DeactivateService(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "service")
	if !ok {
		return
	}

	if err := h.service.Deactivate(r.Context(), id); err != nil {
		handleServiceError(w, h.log, err, "deactivate service")
		return
	}

	utils.ResponseSuccess(w, "Service deactivated", nil)
}
