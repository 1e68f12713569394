package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Item is a catalog product. When variations exist, Stock mirrors their sum.
type Item struct {
	BaseModel
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"`
	Category    string          `gorm:"index" json:"category"`
	Image       string          `json:"image"`
	Stock       int             `json:"stock"`
	Variations  []ItemVariation `gorm:"constraint:OnDelete:CASCADE" json:"variations,omitempty"`
}

// ItemVariation is a (color, size) SKU of an item with its own stock count.
type ItemVariation struct {
	BaseModel
	ItemID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_item_variation" json:"item_id"`
	Color  string    `gorm:"uniqueIndex:idx_item_variation" json:"color"`
	Size   string    `gorm:"uniqueIndex:idx_item_variation" json:"size"`
	Stock  int       `json:"stock"`
}

// Variation looks up the (color, size) SKU. An item without variations is
// addressed with an empty color and size and reports its own stock.
func (i *Item) Variation(color, size string) (ItemVariation, bool) {
	if len(i.Variations) == 0 {
		if color == "" && size == "" {
			return ItemVariation{ItemID: i.ID, Stock: i.Stock}, true
		}
		return ItemVariation{}, false
	}

	for _, v := range i.Variations {
		if v.Color == color && v.Size == size {
			return v, true
		}
	}
	return ItemVariation{}, false
}

// RecalculateStock sets Stock to the sum of variation stock.
func (i *Item) RecalculateStock() {
	if len(i.Variations) == 0 {
		return
	}

	total := 0
	for _, v := range i.Variations {
		total += v.Stock
	}
	i.Stock = total
}

// BeforeSave keeps the aggregated stock in sync with loaded variations.
func (i *Item) BeforeSave(tx *gorm.DB) error {
	i.RecalculateStock()
	return nil
}
