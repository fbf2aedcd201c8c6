package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"booking-platform/internal/notify"
	"booking-platform/internal/usecase"
	"booking-platform/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Catalog *CatalogHandler
	Booking *BookingHandler
	Events  *EventsHandler
}

func NewHandler(service *usecase.Service, hub *notify.Hub, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		Catalog: NewCatalogHandler(service.Catalog, log),
		Booking: NewBookingHandler(service.Booking, log),
		Events:  NewEventsHandler(hub, log),
	}
}

// maxBodyBytes caps JSON request bodies. A full cart is a few KB.
const maxBodyBytes = 64 << 10

// decodeJSON writes a 400 and returns false when the body is not valid JSON,
// or a 413 when it is larger than maxBodyBytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.ResponseJSON(w, http.StatusRequestEntityTooLarge, false, "Request body too large", nil, nil)
			return false
		}
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

func uuidParam(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+label+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}
