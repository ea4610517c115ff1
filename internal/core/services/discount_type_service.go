package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/skolarity/fee_ledger_app/internal/apperrors"
	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	portsrepo "github.com/skolarity/fee_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/skolarity/fee_ledger_app/internal/core/ports/services"
	"github.com/skolarity/fee_ledger_app/internal/dto"
)

type discountTypeService struct {
	BaseService
	discountTypeRepo portsrepo.DiscountTypeRepository
}

// NewDiscountTypeService creates a new discount catalog service.
func NewDiscountTypeService(discountTypeRepo portsrepo.DiscountTypeRepository) portssvc.DiscountTypeSvcFacade {
	return &discountTypeService{discountTypeRepo: discountTypeRepo}
}

var _ portssvc.DiscountTypeSvcFacade = (*discountTypeService)(nil)

func (s *discountTypeService) CreateDiscountType(ctx context.Context, req dto.CreateDiscountTypeRequest, actorID string) (*domain.DiscountType, error) {
	now := time.Now().UTC()
	dt := domain.DiscountType{
		DiscountTypeID: uuid.NewString(),
		Name:           req.Name,
		Description:    req.Description,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.discountTypeRepo.SaveDiscountType(ctx, dt); err != nil {
		s.LogError(ctx, err, "Failed to save discount type", slog.String("name", req.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Discount type created", slog.String("discount_type_id", dt.DiscountTypeID))
	return &dt, nil
}

func (s *discountTypeService) GetDiscountTypeByID(ctx context.Context, discountTypeID string) (*domain.DiscountType, error) {
	dt, err := s.discountTypeRepo.FindDiscountTypeByID(ctx, discountTypeID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find discount type", slog.String("discount_type_id", discountTypeID))
		}
		return nil, err
	}
	return dt, nil
}

func (s *discountTypeService) ListDiscountTypes(ctx context.Context, limit int, offset int) ([]domain.DiscountType, error) {
	types, err := s.discountTypeRepo.ListDiscountTypes(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list discount types")
		return nil, err
	}
	if types == nil {
		types = []domain.DiscountType{}
	}
	return types, nil
}
