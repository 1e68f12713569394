package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/ecomm/internal/models"
)

// CartService maintains per-user cart entries.
type CartService struct {
	db *gorm.DB
}

// NewCartService constructs CartService.
func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// CartItemInput addresses one (item, color, size) line.
type CartItemInput struct {
	ItemID   uuid.UUID
	Quantity int
	Color    string
	Size     string
}

// CartView is a cart joined with live catalog data.
type CartView struct {
	Items []CartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// CartLine is one cart entry. Unavailable lines reference a deleted item or
// variation and do not count towards the total.
type CartLine struct {
	ID        uuid.UUID       `json:"id"`
	ItemID    uuid.UUID       `json:"item_id"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	Item      *models.Item    `json:"item,omitempty"`
	Available bool            `json:"available"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// AddItem puts quantity units of a variation into the cart, merging with an
// existing line for the same (item, color, size).
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, in CartItemInput) (*CartView, error) {
	if in.ItemID == uuid.Nil {
		return nil, newError(ErrValidation, "item_id is required")
	}
	if in.Quantity < 1 {
		return nil, newError(ErrValidation, "quantity must be at least 1")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		variation, err := findVariation(tx, in.ItemID, in.Color, in.Size)
		if err != nil {
			return err
		}

		entry, err := findCartEntry(tx, userID, in.ItemID, in.Color, in.Size)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		if entry == nil {
			entry = &models.CartEntry{
				UserID: userID,
				ItemID: in.ItemID,
				Color:  in.Color,
				Size:   in.Size,
			}
		}
		entry.Quantity += in.Quantity

		if entry.Quantity > variation.Stock {
			return newError(ErrInsufficientStock, "only %d in stock for the selected variation", variation.Stock)
		}
		return tx.Save(entry).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

// UpdateQuantity overwrites the quantity of a line; zero or less removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, in CartItemInput) (*CartView, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := findCartEntry(tx, userID, in.ItemID, in.Color, in.Size)
		if err != nil {
			return err
		}

		if in.Quantity <= 0 {
			return tx.Delete(entry).Error
		}

		variation, err := findVariation(tx, in.ItemID, in.Color, in.Size)
		if err != nil {
			return err
		}
		if in.Quantity > variation.Stock {
			return newError(ErrInsufficientStock, "only %d in stock for the selected variation", variation.Stock)
		}

		return tx.Model(entry).Update("quantity", in.Quantity).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem deletes one line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID, color, size string) (*CartView, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ? AND color = ? AND size = ?", userID, itemID, color, size).
		Delete(&models.CartEntry{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, notFound("cart item")
	}

	return s.GetCart(ctx, userID)
}

// GetCart returns the user's lines priced with live item prices.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	entries, err := loadCartEntries(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: make([]CartLine, 0, len(entries)), Total: decimal.Zero}
	for _, e := range entries {
		line := CartLine{
			ID:        e.ID,
			ItemID:    e.ItemID,
			Color:     e.Color,
			Size:      e.Size,
			Quantity:  e.Quantity,
			Item:      e.Item,
			LineTotal: decimal.Zero,
		}
		if e.Item != nil {
			if _, ok := e.Item.Variation(e.Color, e.Size); ok {
				line.Available = true
				line.LineTotal = e.Item.Price.Mul(decimal.NewFromInt(int64(e.Quantity)))
				view.Total = view.Total.Add(line.LineTotal)
			}
		}
		view.Items = append(view.Items, line)
	}
	return view, nil
}

func loadCartEntries(db *gorm.DB, userID uuid.UUID) ([]models.CartEntry, error) {
	var entries []models.CartEntry
	err := db.Preload("Item.Variations").
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&entries).Error
	return entries, err
}

func findCartEntry(db *gorm.DB, userID, itemID uuid.UUID, color, size string) (*models.CartEntry, error) {
	var entry models.CartEntry
	err := db.Where("user_id = ? AND item_id = ? AND color = ? AND size = ?", userID, itemID, color, size).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("cart item")
		}
		return nil, err
	}
	return &entry, nil
}

func findVariation(db *gorm.DB, itemID uuid.UUID, color, size string) (models.ItemVariation, error) {
	item, err := loadItem(db, itemID)
	if err != nil {
		return models.ItemVariation{}, err
	}
	variation, ok := item.Variation(color, size)
	if !ok {
		return models.ItemVariation{}, notFound("selected color/size")
	}
	return variation, nil
}
