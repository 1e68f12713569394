package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/ecomm/internal/idempotency"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
	maxIdempotencyKeyLen = 128
)

// Idempotency replays the stored response for a repeated Idempotency-Key and
// rejects a duplicate that arrives while the first is still running. Requests
// without the header, or with a nil store, pass through.
func Idempotency(store idempotency.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := strings.TrimSpace(c.Get(HeaderIdempotencyKey))
		if store == nil || key == "" {
			return c.Next()
		}
		if len(key) > maxIdempotencyKeyLen {
			return fiber.NewError(fiber.StatusBadRequest, "idempotency key too long")
		}

		principal, ok := GetPrincipal(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		scoped := principal.ID.String() + ":" + c.Path() + ":" + key

		ctx := c.UserContext()
		state, stored, err := store.Reserve(ctx, scoped)
		if err != nil {
			log.Printf("[Idempotency] reserve %s failed, continuing without it: %v", scoped, err)
			return c.Next()
		}

		switch state {
		case idempotency.StateCompleted:
			c.Set(headerReplayed, "true")
			if stored.ContentType != "" {
				c.Set(fiber.HeaderContentType, stored.ContentType)
			}
			return c.Status(stored.Status).Send(stored.Body)
		case idempotency.StateInFlight:
			return fiber.NewError(fiber.StatusConflict, "a request with this idempotency key is already in progress")
		}

		if err := c.Next(); err != nil {
			release(c, store, scoped)
			return err
		}

		status := c.Response().StatusCode()
		if status >= fiber.StatusBadRequest {
			release(c, store, scoped)
			return nil
		}

		resp := idempotency.Response{
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		if err := store.Complete(ctx, scoped, resp); err != nil {
			log.Printf("[Idempotency] complete %s failed: %v", scoped, err)
		}
		return nil
	}
}

func release(c *fiber.Ctx, store idempotency.Store, key string) {
	if err := store.Release(c.UserContext(), key); err != nil {
		log.Printf("[Idempotency] release %s failed: %v", key, err)
	}
}
