package repository_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/4ourCEo/Kitly/internal/model"
	"github.com/4ourCEo/Kitly/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewEntitlementRepository(db)
	ctx := context.Background()

	first, created, err := repo.Grant(ctx, db, "u1", "k1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, first.PurchasedAt.IsZero())

	second, created, err := repo.Grant(ctx, db, "u1", "k1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&model.Entitlement{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGrantDistinctPairs(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewEntitlementRepository(db)
	ctx := context.Background()

	for _, pair := range [][2]string{{"u1", "k1"}, {"u1", "k2"}, {"u2", "k1"}} {
		_, created, err := repo.Grant(ctx, db, pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, created)
	}

	var count int64
	require.NoError(t, db.Model(&model.Entitlement{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestGrantConcurrentDuplicates(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewEntitlementRepository(db)
	ctx := context.Background()

	var wg sync.WaitGroup
	var createdCount atomic.Int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created, err := repo.Grant(ctx, db, "u1", "k1")
			assert.NoError(t, err)
			if created {
				createdCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), createdCount.Load())

	var count int64
	require.NoError(t, db.Model(&model.Entitlement{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestHas(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewEntitlementRepository(db)
	ctx := context.Background()

	owned, err := repo.Has(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.False(t, owned)

	_, _, err = repo.Grant(ctx, db, "u1", "k1")
	require.NoError(t, err)

	owned, err = repo.Has(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.True(t, owned)
}

func TestListWithKits(t *testing.T) {
	db := newTestDB(t)
	kitRepo := repository.NewKitRepository(db)
	repo := repository.NewEntitlementRepository(db)
	ctx := context.Background()

	require.NoError(t, kitRepo.Seed(ctx))

	_, _, err := repo.Grant(ctx, db, "u1", "saas_launch")
	require.NoError(t, err)
	_, _, err = repo.Grant(ctx, db, "u2", "ai_thought_leadership")
	require.NoError(t, err)

	entitlements, err := repo.ListWithKits(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entitlements, 1)

	e := entitlements[0]
	assert.Equal(t, "u1", e.UserID)
	assert.Equal(t, "saas_launch", e.KitID)
	assert.False(t, e.PurchasedAt.IsZero())
	require.NotNil(t, e.Kit)
	assert.Equal(t, "SaaS Launch Kit", e.Kit.Name)
	assert.Len(t, e.Kit.Assets, 3)
}
