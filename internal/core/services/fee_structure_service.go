package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/skolarity/fee_ledger_app/internal/apperrors"
	"github.com/skolarity/fee_ledger_app/internal/core/domain"
	portsrepo "github.com/skolarity/fee_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/skolarity/fee_ledger_app/internal/core/ports/services"
	"github.com/skolarity/fee_ledger_app/internal/dto"
)

type feeStructureService struct {
	BaseService
	structureRepo portsrepo.FeeStructureRepository
}

// NewFeeStructureService creates a new fee structure service.
func NewFeeStructureService(structureRepo portsrepo.FeeStructureRepository) portssvc.FeeStructureSvcFacade {
	return &feeStructureService{structureRepo: structureRepo}
}

var _ portssvc.FeeStructureSvcFacade = (*feeStructureService)(nil)

// CreateFeeStructure validates and persists a fee structure. Each component
// amount must be positive and the component sum becomes the base amount of
// every fee assigned from the structure.
func (s *feeStructureService) CreateFeeStructure(ctx context.Context, req dto.CreateFeeStructureRequest, actorID string) (*domain.FeeStructure, error) {
	components := make([]domain.FeeComponent, 0, len(req.Components))
	for _, c := range req.Components {
		if c.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: component %q amount (%s) must be positive", apperrors.ErrValidation, c.Name, c.Amount)
		}
		components = append(components, domain.FeeComponent{
			Name:        c.Name,
			Kind:        domain.FeeComponentKind(c.Kind),
			Amount:      c.Amount,
			Description: c.Description,
		})
	}

	now := time.Now().UTC()
	fs := domain.FeeStructure{
		StructureID: uuid.NewString(),
		Name:        req.Name,
		Term:        req.Term,
		Components:  components,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.structureRepo.SaveFeeStructure(ctx, fs); err != nil {
		s.LogError(ctx, err, "Failed to save fee structure", slog.String("name", req.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Fee structure created",
		slog.String("structure_id", fs.StructureID), slog.String("term", fs.Term))
	return &fs, nil
}

func (s *feeStructureService) GetFeeStructureByID(ctx context.Context, structureID string) (*domain.FeeStructure, error) {
	fs, err := s.structureRepo.FindFeeStructureByID(ctx, structureID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find fee structure", slog.String("structure_id", structureID))
		}
		return nil, err
	}
	return fs, nil
}

func (s *feeStructureService) ListFeeStructures(ctx context.Context, limit int, offset int) ([]domain.FeeStructure, error) {
	structures, err := s.structureRepo.ListFeeStructures(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list fee structures")
		return nil, err
	}
	if structures == nil {
		structures = []domain.FeeStructure{}
	}
	return structures, nil
}
