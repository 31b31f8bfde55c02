package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/crestline-dev/budget-api/internal/domain"
	"github.com/crestline-dev/budget-api/internal/mapper"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PlanStore is the persistence surface the plan service depends on
type PlanStore interface {
	Create(ctx context.Context, plan *domain.Plan) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error)
	List(ctx context.Context, projectType *domain.ProjectType) ([]domain.Plan, error)
	IsReferenced(ctx context.Context, planID uuid.UUID) (bool, error)
	Update(ctx context.Context, plan *domain.Plan) error
	ReplaceVersion(ctx context.Context, oldID uuid.UUID, replacement *domain.Plan) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

const planCatalogTTL = 15 * time.Minute

type catalogEntry struct {
	plans     []domain.PlanDTO
	expiresAt time.Time
}

// PlanService handles business logic for construction plans. The active
// catalog is read far more often than plans change, so list responses are
// cached with a TTL; any write invalidates the whole cache.
type PlanService struct {
	store  PlanStore
	logger *zap.Logger

	mu      sync.RWMutex
	catalog map[string]catalogEntry
}

// NewPlanService creates a new PlanService instance
func NewPlanService(store PlanStore, logger *zap.Logger) *PlanService {
	return &PlanService{
		store:   store,
		logger:  logger,
		catalog: make(map[string]catalogEntry),
	}
}

// List returns active plans, optionally filtered by project type
func (s *PlanService) List(ctx context.Context, projectType *domain.ProjectType) ([]domain.PlanDTO, error) {
	if projectType != nil && !projectType.IsValid() {
		return nil, fmt.Errorf("%w: unknown project type %q", ErrInvalidInput, *projectType)
	}

	key := ""
	if projectType != nil {
		key = string(*projectType)
	}

	s.mu.RLock()
	entry, ok := s.catalog[key]
	s.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.plans, nil
	}

	plans, err := s.store.List(ctx, projectType)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	dtos := make([]domain.PlanDTO, len(plans))
	for i := range plans {
		dtos[i] = mapper.ToPlanDTO(&plans[i])
	}

	s.mu.Lock()
	s.catalog[key] = catalogEntry{plans: dtos, expiresAt: time.Now().Add(planCatalogTTL)}
	s.mu.Unlock()

	return dtos, nil
}

// GetByID retrieves a plan with its cost breakdown
func (s *PlanService) GetByID(ctx context.Context, id uuid.UUID) (*domain.PlanDTO, error) {
	plan, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	dto := mapper.ToPlanDTO(plan)
	return &dto, nil
}

// Create creates a new plan with its cost breakdown
func (s *PlanService) Create(ctx context.Context, req *domain.CreatePlanRequest) (*domain.PlanDTO, error) {
	if err := validateProjectTypes(req.ProjectTypes); err != nil {
		return nil, err
	}

	plan := planFromRequest(req.Name, req.Description, req.SquareFootage, req.Bedrooms,
		req.Bathrooms, req.GarageSpaces, req.Stories, req.ProjectTypes,
		req.BaseCost, req.CostPerSF, req.CostLines)
	plan.IsActive = true
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}

	if err := s.store.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	s.invalidateCatalog()
	s.logger.Info("Plan created",
		zap.String("plan_id", plan.ID.String()),
		zap.String("name", plan.Name),
	)

	dto := mapper.ToPlanDTO(plan)
	return &dto, nil
}

// Update edits a plan. A plan no budget references is updated in place. A
// referenced plan is copy-on-write: the old row is deactivated and the edit
// lands as a new plan row, so budgets already seeded from it keep their
// snapshot. Returns the surviving row either way.
func (s *PlanService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdatePlanRequest) (*domain.PlanDTO, error) {
	if err := validateProjectTypes(req.ProjectTypes); err != nil {
		return nil, err
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	referenced, err := s.store.IsReferenced(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check plan references: %w", err)
	}

	updated := planFromRequest(req.Name, req.Description, req.SquareFootage, req.Bedrooms,
		req.Bathrooms, req.GarageSpaces, req.Stories, req.ProjectTypes,
		req.BaseCost, req.CostPerSF, req.CostLines)
	updated.IsActive = existing.IsActive
	if req.IsActive != nil {
		updated.IsActive = *req.IsActive
	}

	if referenced {
		if err := s.store.ReplaceVersion(ctx, id, updated); err != nil {
			return nil, fmt.Errorf("failed to replace plan version: %w", err)
		}
		s.logger.Info("Plan replaced (copy-on-write)",
			zap.String("old_plan_id", id.String()),
			zap.String("new_plan_id", updated.ID.String()),
		)
	} else {
		updated.ID = id
		if err := s.store.Update(ctx, updated); err != nil {
			return nil, fmt.Errorf("failed to update plan: %w", err)
		}
	}

	s.invalidateCatalog()

	reloaded, err := s.store.GetByID(ctx, updated.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload plan: %w", err)
	}
	dto := mapper.ToPlanDTO(reloaded)
	return &dto, nil
}

// SetActive flips a plan's catalog visibility
func (s *PlanService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.store.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		return fmt.Errorf("failed to set plan active flag: %w", err)
	}
	s.invalidateCatalog()
	return nil
}

// Delete removes a plan after verifying no budget was seeded from it.
// Referenced plans can only be deactivated.
func (s *PlanService) Delete(ctx context.Context, id uuid.UUID) error {
	referenced, err := s.store.IsReferenced(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check plan references: %w", err)
	}
	if referenced {
		return fmt.Errorf("%w: plan is referenced by budgets", ErrConflict)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		return fmt.Errorf("failed to delete plan: %w", err)
	}

	s.invalidateCatalog()
	return nil
}

// RefreshCatalog drops the cached catalog and warms the unfiltered entry.
// Called by the scheduled refresh job.
func (s *PlanService) RefreshCatalog(ctx context.Context) error {
	s.invalidateCatalog()
	_, err := s.List(ctx, nil)
	return err
}

func (s *PlanService) invalidateCatalog() {
	s.mu.Lock()
	s.catalog = make(map[string]catalogEntry)
	s.mu.Unlock()
}

func validateProjectTypes(types []string) error {
	for _, t := range types {
		if !domain.ProjectType(t).IsValid() {
			return fmt.Errorf("%w: unknown project type %q", ErrInvalidInput, t)
		}
	}
	return nil
}

func planFromRequest(name, description string, squareFootage, bedrooms int, bathrooms float64,
	garageSpaces, stories int, projectTypes []string, baseCost, costPerSF float64,
	lines []domain.CreatePlanCostLineRequest) *domain.Plan {

	costLines := make([]domain.PlanCostLine, len(lines))
	for i, l := range lines {
		order := l.DisplayOrder
		if order == 0 {
			order = i + 1
		}
		costLines[i] = domain.PlanCostLine{
			CategoryKey:  l.CategoryKey,
			Amount:       l.Amount,
			DisplayOrder: order,
		}
	}

	return &domain.Plan{
		Name:          name,
		Description:   description,
		SquareFootage: squareFootage,
		Bedrooms:      bedrooms,
		Bathrooms:     bathrooms,
		GarageSpaces:  garageSpaces,
		Stories:       stories,
		ProjectTypes:  projectTypes,
		BaseCost:      baseCost,
		CostPerSF:     costPerSF,
		CostLines:     costLines,
	}
}
