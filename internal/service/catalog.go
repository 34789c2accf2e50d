package service

import (
	"context"
	"errors"

	"github.com/4ourCEo/Kitly/internal/apperror"
	"github.com/4ourCEo/Kitly/internal/model"
	"github.com/4ourCEo/Kitly/internal/repository"

	"gorm.io/gorm"
)

type CatalogService interface {
	ListKits(ctx context.Context) ([]*model.Kit, error)
	GetKit(ctx context.Context, kitID string) (*model.Kit, error)
	// ListUserKits returns the caller's entitlements, each joined with
	// its kit, for the dashboard/editor unlock check.
	ListUserKits(ctx context.Context, userID string) ([]*model.Entitlement, error)
}

type catalogServiceImpl struct {
	kitRepo         repository.KitRepository
	entitlementRepo repository.EntitlementRepository
}

func NewCatalogService(
	kitRepo repository.KitRepository,
	entitlementRepo repository.EntitlementRepository,
) CatalogService {
	return &catalogServiceImpl{
		kitRepo:         kitRepo,
		entitlementRepo: entitlementRepo,
	}
}

func (s *catalogServiceImpl) ListKits(ctx context.Context) ([]*model.Kit, error) {
	kits, err := s.kitRepo.List(ctx)
	if err != nil {
		// An outage is an error, never an empty (or fake) catalog.
		return nil, apperror.New(apperror.KindStorage, "list kits", err)
	}

	return kits, nil
}

func (s *catalogServiceImpl) GetKit(ctx context.Context, kitID string) (*model.Kit, error) {
	kit, err := s.kitRepo.FindByID(ctx, kitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Newf(apperror.KindNotFound, "kit %s not found", kitID)
		}
		return nil, apperror.New(apperror.KindStorage, "look up kit", err)
	}

	return kit, nil
}

func (s *catalogServiceImpl) ListUserKits(ctx context.Context, userID string) ([]*model.Entitlement, error) {
	entitlements, err := s.entitlementRepo.ListWithKits(ctx, userID)
	if err != nil {
		return nil, apperror.New(apperror.KindStorage, "list entitlements", err)
	}

	return entitlements, nil
}
