package models

import (
	"time"

	"storefront/internal/patch"

	"github.com/shopspring/decimal"
)

// Product represents a product in the store.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string          `json:"name" gorm:"type:varchar(100);not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	PhotoURL    string          `json:"photo_url" gorm:"type:varchar(1024);not null"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ProductPatch lists the product columns a partial update may touch.
type ProductPatch struct {
	Name        patch.Optional[string]          `json:"name"`
	Description patch.Optional[string]          `json:"description"`
	Price       patch.Optional[decimal.Decimal] `json:"price"`
	PhotoURL    patch.Optional[string]          `json:"photo_url"`
}
