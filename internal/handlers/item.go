package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/example/ecomm/internal/services"
	"github.com/example/ecomm/internal/utils"
)

// ItemHandler manages catalog endpoints.
type ItemHandler struct {
	catalog *services.CatalogService
}

// NewItemHandler constructs ItemHandler.
func NewItemHandler(catalog *services.CatalogService) *ItemHandler {
	return &ItemHandler{catalog: catalog}
}

type itemRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       *decimal.Decimal   `json:"price"`
	Category    string             `json:"category"`
	Image       string             `json:"image"`
	Stock       int                `json:"stock"`
	Variations  []variationRequest `json:"variations"`
}

type variationRequest struct {
	Color string `json:"color"`
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

// ListItems returns paginated items, optionally filtered by category.
func (h *ItemHandler) ListItems(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	items, total, err := h.catalog.ListItems(c.UserContext(), services.ItemFilter{
		Category: c.Query("category"),
		Limit:    pg.Limit,
		Offset:   pg.Offset,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       items,
		"pagination": pg.Meta(total),
	})
}

// GetItem loads one item with its variations.
func (h *ItemHandler) GetItem(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	item, err := h.catalog.GetItem(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

// CreateItem handles item creation.
func (h *ItemHandler) CreateItem(c *fiber.Ctx) error {
	input, err := parseItemRequest(c)
	if err != nil {
		return err
	}

	item, err := h.catalog.CreateItem(c.UserContext(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": item})
}

// UpdateItem replaces an item and its variations.
func (h *ItemHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	input, err := parseItemRequest(c)
	if err != nil {
		return err
	}

	item, err := h.catalog.UpdateItem(c.UserContext(), id, input)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

// DeleteItem removes an item.
func (h *ItemHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.catalog.DeleteItem(c.UserContext(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseItemRequest(c *fiber.Ctx) (services.ItemInput, error) {
	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return services.ItemInput{}, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Price == nil {
		return services.ItemInput{}, fiber.NewError(fiber.StatusBadRequest, "name, price and category are required")
	}

	input := services.ItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Stock:       req.Stock,
	}
	for _, v := range req.Variations {
		input.Variations = append(input.Variations, services.VariationInput{
			Color: v.Color,
			Size:  v.Size,
			Stock: v.Stock,
		})
	}
	return input, nil
}
