package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/ecomm/internal/config"
	"github.com/example/ecomm/internal/models"
	"github.com/example/ecomm/internal/utils"
)

const principalContextKey = "currentPrincipal"

// AuthMiddleware validates JWT tokens, resolves them to a stored user or rider
// and loads the resulting principal into the request context.
func AuthMiddleware(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		claims, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		if err := resolveAccount(db.WithContext(c.UserContext()), claims); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "account not found")
			}
			return err
		}

		c.Locals(principalContextKey, models.Principal{ID: claims.ID, Role: claims.Role})
		return c.Next()
	}
}

// RequireRoles rejects principals whose role is not listed.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := GetPrincipal(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		for _, role := range roles {
			if principal.Role == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "access denied")
	}
}

// GetPrincipal extracts the authenticated caller from context.
func GetPrincipal(c *fiber.Ctx) (models.Principal, bool) {
	value := c.Locals(principalContextKey)
	if value == nil {
		return models.Principal{}, false
	}

	principal, ok := value.(models.Principal)
	if !ok || principal.ID == uuid.Nil {
		return models.Principal{}, false
	}
	return principal, true
}

func resolveAccount(db *gorm.DB, claims utils.TokenClaims) error {
	if claims.Role == models.RoleRider {
		var rider models.Rider
		return db.Select("id").First(&rider, "id = ?", claims.ID).Error
	}

	var user models.User
	return db.Select("id").First(&user, "id = ? AND role = ?", claims.ID, claims.Role).Error
}
