package repository

import (
	"context"
	"time"

	"github.com/4ourCEo/Kitly/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EntitlementRepository interface {
	Has(ctx context.Context, userID, kitID string) (bool, error)
	// Grant inserts the entitlement if it does not exist. Concurrent
	// duplicate calls for the same pair converge to one row; created
	// reports whether this call inserted it.
	Grant(ctx context.Context, tx *gorm.DB, userID, kitID string) (*model.Entitlement, bool, error)
	ListWithKits(ctx context.Context, userID string) ([]*model.Entitlement, error)
}

type entitlementRepoImpl struct {
	db *gorm.DB
}

func NewEntitlementRepository(db *gorm.DB) EntitlementRepository {
	return &entitlementRepoImpl{
		db: db,
	}
}

func (r *entitlementRepoImpl) Has(ctx context.Context, userID, kitID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Entitlement{}).
		Where("user_id = ? AND kit_id = ?", userID, kitID).
		Count(&count).Error

	return count > 0, err
}

func (r *entitlementRepoImpl) Grant(ctx context.Context, tx *gorm.DB, userID, kitID string) (*model.Entitlement, bool, error) {
	entitlement := &model.Entitlement{
		UserID:      userID,
		KitID:       kitID,
		PurchasedAt: time.Now(),
	}

	result := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "kit_id"}},
		DoNothing: true,
	}).Create(entitlement)

	if result.Error != nil {
		return nil, false, result.Error
	}

	if result.RowsAffected == 0 {
		// Lost the race or redelivered event: return the existing row.
		var existing model.Entitlement
		err := tx.WithContext(ctx).
			Where("user_id = ? AND kit_id = ?", userID, kitID).
			First(&existing).Error
		if err != nil {
			return nil, false, err
		}
		return &existing, false, nil
	}

	return entitlement, true, nil
}

func (r *entitlementRepoImpl) ListWithKits(ctx context.Context, userID string) ([]*model.Entitlement, error) {
	var entitlements []*model.Entitlement
	err := r.db.WithContext(ctx).
		Preload("Kit").
		Preload("Kit.Assets", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id = ?", userID).
		Order("purchased_at DESC").
		Find(&entitlements).
		Error

	if err != nil {
		return nil, err
	}

	return entitlements, nil
}
