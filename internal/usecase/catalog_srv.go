package usecase

import (
	"context"
	"errors"
	"time"

	"booking-platform/internal/data/entity"
	"booking-platform/internal/data/repository"
	"booking-platform/internal/dto/request"
	"booking-platform/internal/dto/response"
	"booking-platform/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService manages the services customers can book. Deactivating a
// service hides it from new carts; existing bookings keep their prices.
type CatalogService interface {
	ListActive(ctx context.Context) ([]response.ServiceResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*response.ServiceResponse, error)
	Create(ctx context.Context, req *request.CreateServiceRequest) (*response.ServiceResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *request.UpdateServiceRequest) (*response.ServiceResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	services repository.ServiceRepository
	log      *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		services: repo.Service,
		log:      log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) ListActive(ctx context.Context) ([]response.ServiceResponse, error) {
	services, err := s.services.FindAllActive(ctx)
	if err != nil {
		return nil, persistence("list services", err)
	}

	result := make([]response.ServiceResponse, 0, len(services))
	for _, svc := range services {
		result = append(result, response.ServiceToResponse(svc))
	}
	return result, nil
}

func (s *catalogService) GetByID(ctx context.Context, id uuid.UUID) (*response.ServiceResponse, error) {
	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, persistence("find service", err)
	}
	if svc == nil {
		return nil, ErrNotFound
	}

	resp := response.ServiceToResponse(svc)
	return &resp, nil
}

func (s *catalogService) Create(ctx context.Context, req *request.CreateServiceRequest) (*response.ServiceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create service validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	now := time.Now()
	svc := &entity.Service{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		BasePrice:   utils.RoundMoney(req.BasePrice),
		IsActive:    true,
		ImageURL:    req.ImageURL,
	}

	if err := s.services.Create(ctx, svc); err != nil {
		return nil, persistence("create service", err)
	}

	s.log.Info("Service created", zap.String("service_id", svc.ID.String()), zap.String("name", svc.Name))

	resp := response.ServiceToResponse(svc)
	return &resp, nil
}

func (s *catalogService) Update(ctx context.Context, id uuid.UUID, req *request.UpdateServiceRequest) (*response.ServiceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update service validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, persistence("find service", err)
	}
	if svc == nil {
		return nil, ErrNotFound
	}

	svc.Name = req.Name
	svc.Type = req.Type
	svc.Description = req.Description
	svc.BasePrice = utils.RoundMoney(req.BasePrice)
	svc.ImageURL = req.ImageURL
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}
	svc.UpdatedAt = time.Now()

	if err := s.services.Update(ctx, svc); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, ErrNotFound
		}
		return nil, persistence("update service", err)
	}

	s.log.Info("Service updated",
		zap.String("service_id", svc.ID.String()),
		zap.Float64("base_price", svc.BasePrice),
	)

	resp := response.ServiceToResponse(svc)
	return &resp, nil
}

func (s *catalogService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.services.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return ErrNotFound
		}
		return persistence("deactivate service", err)
	}
	return nil
}
