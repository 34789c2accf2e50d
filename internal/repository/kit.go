package repository

import (
	"context"

	"github.com/4ourCEo/Kitly/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KitRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, kitID string) (*model.Kit, error)
	List(ctx context.Context) ([]*model.Kit, error)
}

type kitRepoImpl struct {
	db *gorm.DB
}

func NewKitRepository(db *gorm.DB) KitRepository {
	return &kitRepoImpl{
		db: db,
	}
}

func (r *kitRepoImpl) Seed(ctx context.Context) error {
	kits := []model.Kit{
		{
			ID:            "saas_launch",
			Name:          "SaaS Launch Kit",
			Description:   "Everything you need to launch your SaaS product successfully. Includes landing page templates, product hunt assets, email sequences, and a comprehensive launch strategy guide.",
			Price:         decimal.RequireFromString("29.99"),
			StripePriceID: "price_saas_launch_kit",
			Category:      "SaaS Launch",
			ImageURL:      "https://images.unsplash.com/photo-1460925895917-afdab827c52f?w=500&h=300&fit=crop",
			Assets: []model.KitAsset{
				{AssetID: "landing_page", Name: "Landing Page Template", Type: model.AssetTypeTemplate, Description: "High-converting landing page template with modern design", Position: 0},
				{AssetID: "product_hunt_copy", Name: "Product Hunt Launch Copy", Type: model.AssetTypeText, Description: "Proven copy templates for Product Hunt launch", Position: 1},
				{AssetID: "social_graphics", Name: "Social Media Graphics", Type: model.AssetTypeGraphic, Description: "Eye-catching graphics for social media promotion", Position: 2},
			},
		},
		{
			ID:            "ai_thought_leadership",
			Name:          "AI Thought Leadership Kit",
			Description:   "Establish yourself as an AI thought leader with professional templates, whitepapers, and content strategy guides.",
			Price:         decimal.RequireFromString("39.99"),
			StripePriceID: "price_ai_thought_leadership_kit",
			Category:      "AI Thought Leadership",
			ImageURL:      "https://images.unsplash.com/photo-1677442136019-21780ecad995?w=500&h=300&fit=crop",
			Assets: []model.KitAsset{
				{AssetID: "whitepaper_template", Name: "AI Whitepaper Template", Type: model.AssetTypeTemplate, Description: "Professional whitepaper template for AI insights", Position: 0},
				{AssetID: "blog_framework", Name: "Blog Post Framework", Type: model.AssetTypeText, Description: "Structured framework for AI blog posts", Position: 1},
				{AssetID: "linkedin_graphics", Name: "LinkedIn Carousel Graphics", Type: model.AssetTypeGraphic, Description: "Carousel templates for LinkedIn thought pieces", Position: 2},
			},
		},
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&kits).Error
}

func (r *kitRepoImpl) FindByID(ctx context.Context, kitID string) (*model.Kit, error) {
	var kit model.Kit
	err := r.db.WithContext(ctx).
		Preload("Assets", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", kitID).
		First(&kit).Error

	if err != nil {
		return nil, err
	}

	return &kit, nil
}

func (r *kitRepoImpl) List(ctx context.Context) ([]*model.Kit, error) {
	var kits []*model.Kit
	err := r.db.WithContext(ctx).
		Preload("Assets", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at DESC").
		Find(&kits).
		Error

	if err != nil {
		return nil, err
	}

	return kits, nil
}
