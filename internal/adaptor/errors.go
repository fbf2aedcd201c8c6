package adaptor

import (
	"errors"
	"net/http"

	"booking-platform/internal/usecase"
	"booking-platform/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps usecase errors to a status code and a fixed
// message. Storage details are only ever logged.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var validation *usecase.ValidationError
	var invalidRef *usecase.InvalidServiceReferenceError

	switch {
	case errors.As(err, &validation):
		log.Warn(operation+" validation failed", zap.Any("errors", validation.Fields))
		utils.ResponseBadRequest(w, "Validation failed", validation.Fields)

	case errors.As(err, &invalidRef):
		log.Warn(operation+" failed - invalid service reference",
			zap.String("service_id", invalidRef.ServiceID.String()))
		utils.ResponseUnprocessable(w, "Invalid service reference",
			map[string]string{"service_id": invalidRef.ServiceID.String()})

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, "Not found")

	case errors.Is(err, usecase.ErrNotCancelable):
		log.Warn(operation+" failed - not cancelable", zap.Error(err))
		utils.ResponseConflict(w, "Booking cannot be canceled")

	case errors.Is(err, usecase.ErrInvalidTransition):
		log.Warn(operation+" failed - invalid transition", zap.Error(err))
		utils.ResponseConflict(w, "Status transition not allowed")

	case errors.Is(err, usecase.ErrUnauthorized):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, "Invalid credentials")

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
