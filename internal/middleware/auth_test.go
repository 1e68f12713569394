package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/ecomm/internal/config"
	"github.com/example/ecomm/internal/models"
	"github.com/example/ecomm/internal/testutil"
	"github.com/example/ecomm/internal/utils"
)

const testSecret = "test-secret"

func newAuthApp(t *testing.T, db *gorm.DB, roles ...string) *fiber.App {
	t.Helper()
	cfg := &config.Config{JWTSecret: testSecret}

	app := fiber.New()
	app.Get("/whoami", AuthMiddleware(cfg, db), RequireRoles(roles...), func(c *fiber.Ctx) error {
		principal, ok := GetPrincipal(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		return c.SendString(principal.Role + ":" + principal.ID.String())
	})
	return app
}

func token(t *testing.T, id uuid.UUID, role string) string {
	t.Helper()
	tok, err := utils.GenerateToken(testSecret, id, role, time.Hour)
	require.NoError(t, err)
	return tok
}

func get(t *testing.T, app *fiber.App, bearer string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddlewareResolvesAccounts(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "u@example.com", models.RoleUser)
	rider := testutil.CreateRider(t, db, "r@example.com", models.RiderStatusAvailable)
	app := newAuthApp(t, db, models.RoleUser, models.RoleRider)

	assert.Equal(t, fiber.StatusOK, get(t, app, token(t, user.ID, models.RoleUser)).StatusCode)
	assert.Equal(t, fiber.StatusOK, get(t, app, token(t, rider.ID, models.RoleRider)).StatusCode)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "u@example.com", models.RoleUser)
	app := newAuthApp(t, db, models.RoleUser, models.RoleAdmin)

	tests := map[string]string{
		"missing header":  "",
		"garbage token":   "not-a-jwt",
		"unknown account": token(t, uuid.New(), models.RoleUser),
		"role mismatch":   token(t, user.ID, models.RoleAdmin),
	}
	for name, bearer := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, fiber.StatusUnauthorized, get(t, app, bearer).StatusCode)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Basic abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRolesForbidsOtherRoles(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "u@example.com", models.RoleUser)
	app := newAuthApp(t, db, models.RoleAdmin)

	assert.Equal(t, fiber.StatusForbidden, get(t, app, token(t, user.ID, models.RoleUser)).StatusCode)
}
