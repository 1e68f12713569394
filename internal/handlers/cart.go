package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/ecomm/internal/middleware"
	"github.com/example/ecomm/internal/services"
)

// CartHandler exposes the authenticated customer's cart.
type CartHandler struct {
	carts *services.CartService
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(carts *services.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type cartItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
	Color    string `json:"color"`
	Size     string `json:"size"`
}

func (r cartItemRequest) input() (services.CartItemInput, error) {
	id, err := uuid.Parse(r.ItemID)
	if err != nil {
		return services.CartItemInput{}, fiber.NewError(fiber.StatusBadRequest, "invalid item_id")
	}
	return services.CartItemInput{ItemID: id, Quantity: r.Quantity, Color: r.Color, Size: r.Size}, nil
}

// GetCart returns the caller's cart with live totals.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	cart, err := h.carts.GetCart(c.UserContext(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": cart})
}

// AddItem adds a variation to the cart.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	userID, in, err := h.parse(c)
	if err != nil {
		return err
	}

	cart, err := h.carts.AddItem(c.UserContext(), userID, in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": cart})
}

// UpdateItem overwrites a line's quantity.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	userID, in, err := h.parse(c)
	if err != nil {
		return err
	}

	cart, err := h.carts.UpdateQuantity(c.UserContext(), userID, in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": cart})
}

// RemoveItem drops a line from the cart.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	userID, in, err := h.parse(c)
	if err != nil {
		return err
	}

	cart, err := h.carts.RemoveItem(c.UserContext(), userID, in.ItemID, in.Color, in.Size)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": cart})
}

func (h *CartHandler) parse(c *fiber.Ctx) (uuid.UUID, services.CartItemInput, error) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return uuid.Nil, services.CartItemInput{}, fiber.ErrUnauthorized
	}

	var req cartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return uuid.Nil, services.CartItemInput{}, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	in, err := req.input()
	if err != nil {
		return uuid.Nil, services.CartItemInput{}, err
	}
	return principal.ID, in, nil
}
