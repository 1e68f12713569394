package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ecomm/internal/idempotency"
	"github.com/example/ecomm/internal/models"
)

var testPrincipal = models.Principal{ID: uuid.New(), Role: models.RoleUser}

func newIdempotentApp(t *testing.T, store idempotency.Store, status int) (*fiber.App, *int32) {
	t.Helper()
	var calls int32

	app := fiber.New()
	app.Post("/checkout",
		func(c *fiber.Ctx) error {
			c.Locals(principalContextKey, testPrincipal)
			return c.Next()
		},
		Idempotency(store),
		func(c *fiber.Ctx) error {
			n := atomic.AddInt32(&calls, 1)
			if status >= fiber.StatusBadRequest {
				return fiber.NewError(status, "boom")
			}
			return c.Status(status).JSON(fiber.Map{"call": n})
		},
	)
	return app, &calls
}

func newMiniredisStore(t *testing.T) *idempotency.RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return idempotency.NewRedisStoreWithClient(client, time.Minute)
}

func post(t *testing.T, app *fiber.App, key string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestIdempotencyReplaysCompletedResponse(t *testing.T) {
	app, calls := newIdempotentApp(t, newMiniredisStore(t), fiber.StatusCreated)

	first, firstBody := post(t, app, "abc")
	second, secondBody := post(t, app, "abc")

	assert.Equal(t, fiber.StatusCreated, first.StatusCode)
	assert.Equal(t, fiber.StatusCreated, second.StatusCode)
	assert.JSONEq(t, firstBody, secondBody)
	assert.Equal(t, "true", second.Header.Get(headerReplayed))
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))

	_, _ = post(t, app, "other")
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestIdempotencyWithoutKeyOrStore(t *testing.T) {
	app, calls := newIdempotentApp(t, newMiniredisStore(t), fiber.StatusCreated)
	post(t, app, "")
	post(t, app, "")
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))

	app, calls = newIdempotentApp(t, nil, fiber.StatusCreated)
	post(t, app, "abc")
	post(t, app, "abc")
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestIdempotencyReleasesFailedRequests(t *testing.T) {
	app, calls := newIdempotentApp(t, newMiniredisStore(t), fiber.StatusBadRequest)

	first, _ := post(t, app, "abc")
	second, _ := post(t, app, "abc")

	assert.Equal(t, fiber.StatusBadRequest, first.StatusCode)
	assert.Equal(t, fiber.StatusBadRequest, second.StatusCode)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
}

func TestIdempotencyRejectsInFlightDuplicate(t *testing.T) {
	store := newMiniredisStore(t)
	app, calls := newIdempotentApp(t, store, fiber.StatusCreated)

	state, _, err := store.Reserve(context.Background(), testPrincipal.ID.String()+":/checkout:abc")
	require.NoError(t, err)
	require.Equal(t, idempotency.StateReserved, state)

	resp, _ := post(t, app, "abc")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestIdempotencyRejectsLongKeys(t *testing.T) {
	app, calls := newIdempotentApp(t, newMiniredisStore(t), fiber.StatusCreated)

	resp, _ := post(t, app, strings.Repeat("k", 129))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, atomic.LoadInt32(calls))
}
