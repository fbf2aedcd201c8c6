package wire

import (
	"context"
	"net/http"
	"time"

	"booking-platform/internal/adaptor"
	"booking-platform/internal/data/repository"
	"booking-platform/internal/notify"
	"booking-platform/internal/usecase"
	"booking-platform/pkg/middleware"
	"booking-platform/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the router and the resources it owns.
type App struct {
	Router *chi.Mux
	Hub    *notify.Hub
	events *adaptor.EventsHandler
	redis  *redis.Client
}

// Shutdown ends open event streams so the HTTP server can drain.
func (a *App) Shutdown() {
	if a.events != nil {
		a.events.Close()
	}
	a.Hub.Close()
}

// Close releases resources opened by Wiring.
func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

// Wiring builds the notifier, services and handlers and mounts every route.
// When REDIS_URL is set, status events are also relayed to Redis and the
// rate limit counters are kept there.
func Wiring(ctx context.Context, repo *repository.Repository, config *utils.Config, logger *zap.Logger) (*App, error) {
	hub := notify.NewHub(config.Notify.Buffer, logger)

	app := &App{Hub: hub}

	var publisher notify.Publisher = hub
	if config.Notify.RedisURL != "" {
		client, err := notify.NewRedisClient(ctx, config.Notify.RedisURL)
		if err != nil {
			return nil, err
		}
		app.redis = client
		publisher = notify.Fanout{hub, notify.NewRedisPublisher(client, config.Notify.RedisChannel, logger)}

		logger.Info("Redis status relay enabled", zap.String("channel", config.Notify.RedisChannel))
	}

	service := usecase.NewService(repo, publisher, config, logger)
	handler := adaptor.NewHandler(service, hub, logger)
	app.events = handler.Events

	router, err := setupRouter(handler, repo, app.redis, config, logger)
	if err != nil {
		app.Shutdown()
		app.Close()
		return nil, err
	}
	app.Router = router

	return app, nil
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	redisClient *redis.Client,
	config *utils.Config,
	logger *zap.Logger,
) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireAuth(r, handler.Auth, repo, logger)
	wireCatalog(r, handler.Catalog, repo, logger)
	if err := wireBooking(r, handler.Booking, handler.Events, repo, redisClient, config, logger); err != nil {
		return nil, err
	}

	// Liveness
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Readiness: the database must answer.
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := repo.DB.Ping(ctx); err != nil {
			logger.Warn("Readiness check failed", zap.Error(err))
			utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "Database unavailable", nil, nil)
			return
		}
		utils.ResponseSuccess(w, "ready", nil)
	})

	return r, nil
}
