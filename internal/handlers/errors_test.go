package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ecomm/internal/services"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{fiber.NewError(fiber.StatusTeapot, "short and stout"), fiber.StatusTeapot, "short and stout"},
		{&services.Error{Kind: services.ErrNotFound, Message: "order not found"}, fiber.StatusNotFound, "order not found"},
		{&services.Error{Kind: services.ErrForbidden, Message: "nope"}, fiber.StatusForbidden, "nope"},
		{&services.Error{Kind: services.ErrUnauthorized, Message: "who"}, fiber.StatusUnauthorized, "who"},
		{&services.Error{Kind: services.ErrInvalidTransition, Message: "bad move"}, fiber.StatusConflict, "bad move"},
		{&services.Error{Kind: services.ErrConflict, Message: "taken"}, fiber.StatusConflict, "taken"},
		{&services.Error{Kind: services.ErrEmptyCart, Message: "cart is empty"}, fiber.StatusBadRequest, "cart is empty"},
		{&services.Error{Kind: services.ErrInsufficientStock, Message: "low"}, fiber.StatusBadRequest, "low"},
		{fmt.Errorf("wrapped: %w", &services.Error{Kind: services.ErrValidation, Message: "bad"}), fiber.StatusBadRequest, "bad"},
		{errors.New("dial tcp: refused"), fiber.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		status, message := classify(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.message, message)
	}
}

func TestErrorHandlerEnvelope(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("database exploded")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"message":"internal server error"}`, string(body))
}
