package handlers

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/ecomm/internal/config"
	"github.com/example/ecomm/internal/models"
	"github.com/example/ecomm/internal/utils"
)

// AuthHandler bundles dependencies for customer and admin authentication endpoints.
type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	AdminSecret string `json:"admin_secret"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup creates a customer account and returns a token.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.createUser(req, models.RoleUser)
	if err != nil {
		return err
	}

	return h.respondWithToken(c, fiber.StatusCreated, user)
}

// RegisterAdmin creates an admin account when the shared admin secret matches.
func (h *AuthHandler) RegisterAdmin(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if h.cfg.AdminSecretKey == "" ||
		subtle.ConstantTimeCompare([]byte(req.AdminSecret), []byte(h.cfg.AdminSecretKey)) != 1 {
		return fiber.NewError(fiber.StatusForbidden, "invalid admin secret key")
	}

	user, err := h.createUser(req, models.RoleAdmin)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    userResponse(user),
	})
}

// Login authenticates a customer.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	return h.login(c, models.RoleUser)
}

// AdminLogin authenticates an admin.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	return h.login(c, models.RoleAdmin)
}

func (h *AuthHandler) login(c *fiber.Ctx, role string) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password are required")
	}

	var user models.User
	if err := h.db.Where("email = ? AND role = ?", normalizeEmail(req.Email), role).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	return h.respondWithToken(c, fiber.StatusOK, &user)
}

func (h *AuthHandler) createUser(req registerRequest, role string) (*models.User, error) {
	email := normalizeEmail(req.Email)
	if strings.TrimSpace(req.Name) == "" || email == "" || req.Password == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "name, email and password are required")
	}

	var existing models.User
	if err := h.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, fiber.NewError(fiber.StatusConflict, "email address already registered")
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := h.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (h *AuthHandler) respondWithToken(c *fiber.Ctx, status int, user *models.User) error {
	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, user.Role, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"user":    userResponse(user),
		"token":   token,
	})
}

func userResponse(user *models.User) fiber.Map {
	return fiber.Map{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
