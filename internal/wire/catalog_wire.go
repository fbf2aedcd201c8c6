package wire

import (
	"booking-platform/internal/adaptor"
	"booking-platform/internal/data/repository"
	"booking-platform/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCatalog(
	r chi.Router,
	catalogHandler *adaptor.CatalogHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/services - active services for the cart
	r.Get("/api/services", catalogHandler.ListServices)
	r.Get("/api/services/{id}", catalogHandler.GetService)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/services", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(log))

		r.Post("/", catalogHandler.CreateService)
		r.Put("/{id}", catalogHandler.UpdateService)

		// DELETE deactivates; booked items keep their snapshot price
		r.Delete("/{id}", catalogHandler.DeactivateService)
	})
}
