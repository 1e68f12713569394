package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/ecomm/internal/middleware"
	"github.com/example/ecomm/internal/models"
	"github.com/example/ecomm/internal/services"
	"github.com/example/ecomm/internal/utils"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	orders *services.OrderService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type createOrderRequest struct {
	CustomerInfo models.CustomerInfo `json:"customer_info"`
	Items        []cartItemRequest   `json:"items"`
}

type updateStatusRequest struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	RiderID string `json:"rider_id"`
}

// CreateOrder checks out the caller's cart, or the items given in the body.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	in := services.CreateOrderInput{CustomerInfo: req.CustomerInfo}
	for _, item := range req.Items {
		line, err := item.input()
		if err != nil {
			return err
		}
		in.Items = append(in.Items, line)
	}

	order, err := h.orders.CreateOrder(c.UserContext(), principal.ID, in)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}

// ListOrders returns the orders visible to the caller. Admins see every
// order, customers their own and riders the ones assigned to them.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	pg := utils.ParsePagination(c)
	status := models.OrderStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid status filter")
	}

	orders, total, err := h.orders.ListOrders(c.UserContext(), services.OrderFilter{
		Requester: principal,
		Status:    status,
		Limit:     pg.Limit,
		Offset:    pg.Offset,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       orders,
		"pagination": pg.Meta(total),
	})
}

// GetOrder fetches one order.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orders.GetOrder(c.UserContext(), id, principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": order})
}

// UpdateStatus applies an admin status change, assigning a rider on shipment.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order_id")
	}

	in := services.UpdateStatusInput{OrderID: orderID, Status: models.OrderStatus(req.Status)}
	if req.RiderID != "" {
		riderID, err := uuid.Parse(req.RiderID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid rider_id")
		}
		in.RiderID = &riderID
	}

	order, err := h.orders.UpdateOrderStatus(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": order})
}

// UpdateDeliveryStatus lets the assigned rider report the delivery outcome.
func (h *OrderHandler) UpdateDeliveryStatus(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order_id")
	}

	order, err := h.orders.UpdateDeliveryStatus(c.UserContext(), principal.ID, orderID, models.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": order})
}
