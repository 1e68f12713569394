package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/ecomm/internal/models"
)

// CatalogService manages items and their variations.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ItemInput is the writable part of an item.
type ItemInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Image       string
	Stock       int
	Variations  []VariationInput
}

// VariationInput is one (color, size) SKU of an ItemInput.
type VariationInput struct {
	Color string
	Size  string
	Stock int
}

// ItemFilter narrows ListItems.
type ItemFilter struct {
	Category string
	Limit    int
	Offset   int
}

// ListItems returns items newest first with their variations.
func (s *CatalogService) ListItems(ctx context.Context, f ItemFilter) ([]models.Item, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Item{})
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		query = query.Limit(f.Limit).Offset(f.Offset)
	}

	var items []models.Item
	if err := query.Preload("Variations").Order("created_at desc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetItem loads an item with its variations.
func (s *CatalogService) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	return loadItem(s.db.WithContext(ctx), id)
}

// CreateItem validates and stores a new item.
func (s *CatalogService) CreateItem(ctx context.Context, in ItemInput) (*models.Item, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	item := in.toModel()
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem overwrites an item and replaces its variations.
func (s *CatalogService) UpdateItem(ctx context.Context, id uuid.UUID, in ItemInput) (*models.Item, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated models.Item
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := loadItem(tx, id)
		if err != nil {
			return err
		}

		item := in.toModel()
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt
		for i := range item.Variations {
			item.Variations[i].ItemID = existing.ID
		}

		if err := tx.Where("item_id = ?", id).Delete(&models.ItemVariation{}).Error; err != nil {
			return err
		}
		if err := tx.Omit("Variations").Save(&item).Error; err != nil {
			return err
		}
		if len(item.Variations) > 0 {
			if err := tx.Create(&item.Variations).Error; err != nil {
				return err
			}
		}

		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteItem removes an item, its variations and any cart entries pointing at it.
// Orders keep their snapshot lines.
func (s *CatalogService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadItem(tx, id); err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", id).Delete(&models.CartEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", id).Delete(&models.ItemVariation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Item{}, "id = ?", id).Error
	})
}

func loadItem(db *gorm.DB, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := db.Preload("Variations").First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("item")
		}
		return nil, err
	}
	return &item, nil
}

func (in ItemInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Category) == "" {
		return newError(ErrValidation, "name, price and category are required")
	}
	if in.Price.IsNegative() {
		return newError(ErrValidation, "price must not be negative")
	}
	if in.Stock < 0 {
		return newError(ErrValidation, "stock must not be negative")
	}

	seen := make(map[[2]string]bool, len(in.Variations))
	for _, v := range in.Variations {
		if v.Stock < 0 {
			return newError(ErrValidation, "variation stock must not be negative")
		}
		key := [2]string{v.Color, v.Size}
		if seen[key] {
			return newError(ErrValidation, "duplicate variation %s/%s", v.Color, v.Size)
		}
		seen[key] = true
	}
	return nil
}

func (in ItemInput) toModel() models.Item {
	item := models.Item{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Category:    strings.TrimSpace(in.Category),
		Image:       in.Image,
		Stock:       in.Stock,
	}
	for _, v := range in.Variations {
		item.Variations = append(item.Variations, models.ItemVariation{
			Color: v.Color,
			Size:  v.Size,
			Stock: v.Stock,
		})
	}
	item.RecalculateStock()
	return item
}
