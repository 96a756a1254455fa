package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/utafrali/SupplierGo/internal/domain"
	"github.com/utafrali/SupplierGo/internal/event"
	"github.com/utafrali/SupplierGo/internal/repository"
	apperrors "github.com/utafrali/SupplierGo/pkg/errors"
	"github.com/utafrali/SupplierGo/pkg/validator"
)

// Messages returned when a supplier write affects no rows.
const (
	msgSaveFailed   = "There was a problem when saving the data"
	msgUpdateFailed = "There was a problem when updating the data"
	msgDeleteFailed = "There was a problem when deleting the data"
)

// SupplierService implements the supplier CRUD pipeline.
type SupplierService struct {
	repo     repository.SupplierRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewSupplierService creates a new supplier service.
func NewSupplierService(repo repository.SupplierRepository, producer *event.Producer, logger *slog.Logger) *SupplierService {
	return &SupplierService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// List returns every supplier. The slice is empty, never nil, when there
// are none.
func (s *SupplierService) List(ctx context.Context) ([]*domain.Supplier, error) {
	suppliers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	if suppliers == nil {
		suppliers = []*domain.Supplier{}
	}
	return suppliers, nil
}

// GetByID returns errors.ErrNotFound when no supplier has the id.
func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates input and stores it as a new supplier.
func (s *SupplierService) Create(ctx context.Context, input domain.SupplierInput) (*domain.Supplier, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	supplier := input.ToSupplier()
	rows, err := s.repo.Create(ctx, supplier)
	if err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	if rows == 0 {
		return nil, apperrors.Persistence(msgSaveFailed)
	}

	if err := s.producer.PublishSupplierCreated(ctx, supplier); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish supplier.created event",
			slog.String("supplier_id", supplier.ID().String()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "supplier created",
		slog.String("supplier_id", supplier.ID().String()),
		slog.String("name", supplier.Name),
	)

	return supplier, nil
}

// Update replaces every field of an existing supplier. The existence check
// runs before validation, so an unknown id is a 404 even for a bad payload.
func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, input domain.SupplierInput) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := validator.Validate(input); err != nil {
		return err
	}

	supplier := input.ToSupplier()
	supplier.SetID(id)

	rows, err := s.repo.Replace(ctx, supplier)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	if rows == 0 {
		return apperrors.Persistence(msgUpdateFailed)
	}

	if err := s.producer.PublishSupplierUpdated(ctx, supplier); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish supplier.updated event",
			slog.String("supplier_id", id.String()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "supplier updated", slog.String("supplier_id", id.String()))
	return nil
}

// Delete removes an existing supplier.
func (s *SupplierService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	if rows == 0 {
		return apperrors.Persistence(msgDeleteFailed)
	}

	if err := s.producer.PublishSupplierDeleted(ctx, id.String()); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish supplier.deleted event",
			slog.String("supplier_id", id.String()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "supplier deleted", slog.String("supplier_id", id.String()))
	return nil
}
