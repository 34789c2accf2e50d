package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/4ourCEo/Kitly/internal/model"
	"github.com/4ourCEo/Kitly/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSeedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewKitRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx))
	require.NoError(t, repo.Seed(ctx))

	var count int64
	require.NoError(t, db.Model(&model.Kit{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestFindByID(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewKitRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx))

	kit, err := repo.FindByID(ctx, "saas_launch")
	require.NoError(t, err)
	assert.Equal(t, "SaaS Launch Kit", kit.Name)
	assert.Equal(t, "price_saas_launch_kit", kit.StripePriceID)
	assert.True(t, kit.Price.Equal(decimal.RequireFromString("29.99")))

	require.Len(t, kit.Assets, 3)
	assert.Equal(t, "landing_page", kit.Assets[0].AssetID)
	assert.Equal(t, model.AssetTypeTemplate, kit.Assets[0].Type)
	assert.Equal(t, "social_graphics", kit.Assets[2].AssetID)
}

func TestFindByIDUnknown(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewKitRepository(db)

	_, err := repo.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewKitRepository(db)
	ctx := context.Background()

	older := model.Kit{
		ID: "older", Name: "Older Kit", Price: decimal.RequireFromString("9.99"),
		StripePriceID: "price_older", CreatedAt: time.Now().Add(-time.Hour),
	}
	newer := model.Kit{
		ID: "newer", Name: "Newer Kit", Price: decimal.RequireFromString("19.99"),
		StripePriceID: "price_newer", CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	kits, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, kits, 2)
	assert.Equal(t, "newer", kits[0].ID)
	assert.Equal(t, "older", kits[1].ID)
}
