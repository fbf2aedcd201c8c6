package repository

import (
	"context"
	"errors"
	"fmt"

	"booking-platform/internal/data/entity"
	"booking-platform/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ServiceRepository interface {
	// LookupPrices returns the current base price of every requested service
	// that exists and is active. Missing ids are absent from the map.
	LookupPrices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]float64, error)

	Create(ctx context.Context, service *entity.Service) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error)
	FindAllActive(ctx context.Context) ([]*entity.Service, error)
	Update(ctx context.Context, service *entity.Service) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type serviceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewServiceRepository(db database.PgxIface, log *zap.Logger) ServiceRepository {
	return &serviceRepository{
		db:  db,
		log: log.With(zap.String("repository", "service")),
	}
}

func (r *serviceRepository) LookupPrices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]float64, error) {
	prices := make(map[uuid.UUID]float64, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}

	query := `
		SELECT id, base_price
		FROM services
		WHERE id = ANY($1) AND is_active = TRUE
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to look up service prices",
			zap.Error(err),
			zap.Int("id_count", len(ids)),
		)
		return nil, fmt.Errorf("look up service prices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var price float64
		if err := rows.Scan(&id, &price); err != nil {
			r.log.Error("Failed to scan service price row", zap.Error(err))
			return nil, fmt.Errorf("scan service price row: %w", err)
		}
		prices[id] = price
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate service price rows: %w", err)
	}

	return prices, nil
}

func (r *serviceRepository) Create(ctx context.Context, service *entity.Service) error {
	query := `
		INSERT INTO services (id, name, type, description, base_price, is_active, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		service.ID,
		service.Name,
		service.Type,
		service.Description,
		service.BasePrice,
		service.IsActive,
		service.ImageURL,
		service.CreatedAt,
		service.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create service",
			zap.Error(err),
			zap.String("name", service.Name),
		)
		return fmt.Errorf("create service %s: %w", service.Name, err)
	}

	return nil
}

func (r *serviceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	query := `
		SELECT id, name, type, description, base_price, is_active, image_url, created_at, updated_at
		FROM services
		WHERE id = $1
	`

	var service entity.Service
	err := r.db.QueryRow(ctx, query, id).Scan(
		&service.ID,
		&service.Name,
		&service.Type,
		&service.Description,
		&service.BasePrice,
		&service.IsActive,
		&service.ImageURL,
		&service.CreatedAt,
		&service.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find service by ID",
			zap.Error(err),
			zap.String("service_id", id.String()),
		)
		return nil, fmt.Errorf("find service by ID %s: %w", id.String(), err)
	}

	return &service, nil
}

func (r *serviceRepository) FindAllActive(ctx context.Context) ([]*entity.Service, error) {
	query := `
		SELECT id, name, type, description, base_price, is_active, image_url, created_at, updated_at
		FROM services
		WHERE is_active = TRUE
		ORDER BY type, name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find active services", zap.Error(err))
		return nil, fmt.Errorf("find active services: %w", err)
	}
	defer rows.Close()

	var services []*entity.Service
	for rows.Next() {
		var service entity.Service
		err := rows.Scan(
			&service.ID,
			&service.Name,
			&service.Type,
			&service.Description,
			&service.BasePrice,
			&service.IsActive,
			&service.ImageURL,
			&service.CreatedAt,
			&service.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan service row", zap.Error(err))
			return nil, fmt.Errorf("scan service row: %w", err)
		}
		services = append(services, &service)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate service rows: %w", err)
	}

	return services, nil
}

func (r *serviceRepository) Update(ctx context.Context, service *entity.Service) error {
	query := `
		UPDATE services
		SET name = $2, type = $3, description = $4, base_price = $5,
		    is_active = $6, image_url = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		service.ID,
		service.Name,
		service.Type,
		service.Description,
		service.BasePrice,
		service.IsActive,
		service.ImageURL,
		service.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update service",
			zap.Error(err),
			zap.String("service_id", service.ID.String()),
		)
		return fmt.Errorf("update service %s: %w", service.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func (r *serviceRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE services SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to deactivate service",
			zap.Error(err),
			zap.String("service_id", id.String()),
		)
		return fmt.Errorf("deactivate service %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}

	r.log.Info("Service deactivated", zap.String("service_id", id.String()))
	return nil
}
