package models

import "time"

// Favorite links a user to a product they marked. A pair appears at most once.
type Favorite struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_favorites_user_product"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_favorites_user_product"`
	CreatedAt time.Time `json:"created_at"`

	User    *User    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Product *Product `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
