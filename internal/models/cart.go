package models

import "github.com/google/uuid"

// CartEntry is one (item, color, size) line of a user's cart.
type CartEntry struct {
	BaseModel
	UserID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_entry" json:"user_id"`
	ItemID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_entry" json:"item_id"`
	Color    string    `gorm:"uniqueIndex:idx_cart_entry" json:"color"`
	Size     string    `gorm:"uniqueIndex:idx_cart_entry" json:"size"`
	Quantity int       `json:"quantity"`
	Item     *Item     `gorm:"constraint:OnDelete:CASCADE" json:"item,omitempty"`
}
