package models

import "time"

// Cart belongs to exactly one user.
type Cart struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// CartItem is a product line inside a cart.
type CartItem struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string `json:"cart_id" gorm:"type:varchar(36);not null;index"`
	ProductID string `json:"product_id" gorm:"type:varchar(36);not null"`
	Quantity  int    `json:"quantity" gorm:"not null;check:quantity > 0"`

	Cart    *Cart    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Product *Product `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
