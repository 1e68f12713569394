package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/ecomm/internal/config"
	"github.com/example/ecomm/internal/middleware"
	"github.com/example/ecomm/internal/models"
	"github.com/example/ecomm/internal/services"
	"github.com/example/ecomm/internal/utils"
)

// RiderHandler serves rider self-service and the admin rider directory.
type RiderHandler struct {
	riders *services.RiderService
	cfg    *config.Config
}

// NewRiderHandler constructs RiderHandler.
func NewRiderHandler(riders *services.RiderService, cfg *config.Config) *RiderHandler {
	return &RiderHandler{riders: riders, cfg: cfg}
}

type riderRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
	Status   *string `json:"status"`
}

type riderStatusRequest struct {
	Status string `json:"status"`
}

type riderLocationRequest struct {
	Coordinates []float64 `json:"coordinates"`
}

// Login authenticates a rider and issues a rider token.
func (h *RiderHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password are required")
	}

	rider, err := h.riders.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, rider.ID, models.RoleRider, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"rider":   rider,
		"token":   token,
	})
}

// UpdateStatus sets the calling rider's availability.
func (h *RiderHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req riderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	rider, err := h.riders.UpdateStatus(c.UserContext(), principal.ID, models.RiderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": rider})
}

// UpdateLocation stores the calling rider's [longitude, latitude].
func (h *RiderHandler) UpdateLocation(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req riderLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid coordinates")
	}

	rider, err := h.riders.UpdateLocation(c.UserContext(), principal.ID, req.Coordinates)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": rider})
}

// CreateRider registers a rider account.
func (h *RiderHandler) CreateRider(c *fiber.Ctx) error {
	var req riderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	rider, err := h.riders.CreateRider(c.UserContext(), services.CreateRiderInput{
		Name:     deref(req.Name),
		Email:    deref(req.Email),
		Phone:    deref(req.Phone),
		Password: deref(req.Password),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": rider})
}

// ListRiders returns all riders with their active orders.
func (h *RiderHandler) ListRiders(c *fiber.Ctx) error {
	riders, err := h.riders.ListRiders(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": riders})
}

// UpdateRider patches a rider's profile.
func (h *RiderHandler) UpdateRider(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req riderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	in := services.UpdateRiderInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	}
	if req.Status != nil {
		status := models.RiderStatus(*req.Status)
		in.Status = &status
	}

	rider, err := h.riders.UpdateRider(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": rider})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
