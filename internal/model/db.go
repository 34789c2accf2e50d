package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AssetTypeText     = "text"
	AssetTypeGraphic  = "graphic"
	AssetTypeTemplate = "template"
)

// Kit is a purchasable bundle of marketing assets. Kits are created by
// catalog tooling and are read-only here; the authoritative price lives
// with the Stripe price object, the decimal amount is display-only.
type Kit struct {
	ID            string          `gorm:"primaryKey;size:64;not null" json:"id"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	StripePriceID string          `gorm:"size:64;not null" json:"stripe_price_id"`
	Category      string          `gorm:"size:64;index" json:"category"`
	ImageURL      string          `gorm:"size:512" json:"image_url,omitempty"`
	Assets        []KitAsset      `gorm:"foreignKey:KitID" json:"assets"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type KitAsset struct {
	ID uint `gorm:"primaryKey" json:"-"`
	// FK → kit.id
	KitID       string `gorm:"size:64;index;not null" json:"-"`
	AssetID     string `gorm:"size:64;not null" json:"id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Type        string `gorm:"size:32;not null" json:"type"` // text, graphic, template
	Description string `gorm:"type:text" json:"description"`
	Position    int    `gorm:"not null" json:"-"`
}

// Entitlement is durable proof that a user owns a kit. Created only by
// verified payment notifications, never updated, never deleted. The
// unique index makes the grant an insert-if-absent.
type Entitlement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"size:64;not null;uniqueIndex:ux_entitlements_user_kit,priority:1" json:"user_id"`
	KitID       string    `gorm:"size:64;not null;uniqueIndex:ux_entitlements_user_kit,priority:2" json:"kit_id"`
	PurchasedAt time.Time `gorm:"not null" json:"purchased_at"`
	CreatedAt   time.Time `json:"-"`

	Kit *Kit `gorm:"foreignKey:KitID;references:ID" json:"kit,omitempty"`
}

type User struct {
	ID           string `gorm:"primaryKey;size:64;not null"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255"`         // empty for oauth-only accounts
	Provider     string `gorm:"size:32;not null"` // local, google
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WebhookEvent records processed provider event IDs so redelivery of the
// same event is acknowledged without re-running fulfillment.
type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
