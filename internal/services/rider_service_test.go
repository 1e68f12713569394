package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ecomm/internal/models"
	"github.com/example/ecomm/internal/testutil"
)

func TestCreateRiderAndAuthenticate(t *testing.T) {
	svc := NewRiderService(testutil.NewDB(t))
	ctx := context.Background()

	rider, err := svc.CreateRider(ctx, CreateRiderInput{
		Name:     "Sam",
		Email:    " Sam@Example.com ",
		Phone:    "+15550101",
		Password: "pa55word",
	})
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", rider.Email)
	assert.Equal(t, models.RiderStatusAvailable, rider.Status)
	assert.NotEqual(t, "pa55word", rider.PasswordHash)

	_, err = svc.CreateRider(ctx, CreateRiderInput{Name: "Sam", Email: "sam@example.com", Phone: "1", Password: "x"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.CreateRider(ctx, CreateRiderInput{Name: "Sam"})
	assert.ErrorIs(t, err, ErrValidation)

	authed, err := svc.Authenticate(ctx, "SAM@example.com", "pa55word")
	require.NoError(t, err)
	assert.Equal(t, rider.ID, authed.ID)

	_, err = svc.Authenticate(ctx, "sam@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Authenticate(ctx, "nobody@example.com", "pa55word")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUpdateRiderStatus(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRiderService(db)
	ctx := context.Background()
	rider := testutil.CreateRider(t, db, "r@example.com", models.RiderStatusAvailable)

	updated, err := svc.UpdateStatus(ctx, rider.ID, models.RiderStatusOffline)
	require.NoError(t, err)
	assert.Equal(t, models.RiderStatusOffline, updated.Status)

	_, err = svc.UpdateStatus(ctx, rider.ID, models.RiderStatus("sleeping"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, uuid.New(), models.RiderStatusBusy)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRiderLocation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRiderService(db)
	ctx := context.Background()
	rider := testutil.CreateRider(t, db, "r@example.com", models.RiderStatusAvailable)

	updated, err := svc.UpdateLocation(ctx, rider.ID, []float64{69.24, 41.31})
	require.NoError(t, err)
	assert.InDelta(t, 69.24, updated.CurrentLocation.Longitude, 1e-9)
	assert.InDelta(t, 41.31, updated.CurrentLocation.Latitude, 1e-9)

	for _, coords := range [][]float64{nil, {1}, {1, 2, 3}, {181, 0}, {0, -91}} {
		_, err := svc.UpdateLocation(ctx, rider.ID, coords)
		assert.ErrorIs(t, err, ErrInvalidInput, "%v", coords)
	}

	_, err = svc.UpdateLocation(ctx, uuid.New(), []float64{0, 0})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRiderPatch(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRiderService(db)
	ctx := context.Background()
	rider := testutil.CreateRider(t, db, "r@example.com", models.RiderStatusAvailable)
	testutil.CreateRider(t, db, "taken@example.com", models.RiderStatusAvailable)

	name := "Renamed"
	updated, err := svc.UpdateRider(ctx, rider.ID, UpdateRiderInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "r@example.com", updated.Email)

	taken := "TAKEN@example.com"
	_, err = svc.UpdateRider(ctx, rider.ID, UpdateRiderInput{Email: &taken})
	assert.ErrorIs(t, err, ErrConflict)

	same := "r@example.com"
	_, err = svc.UpdateRider(ctx, rider.ID, UpdateRiderInput{Email: &same})
	assert.NoError(t, err)

	blank := ""
	_, err = svc.UpdateRider(ctx, rider.ID, UpdateRiderInput{Name: &blank})
	assert.ErrorIs(t, err, ErrValidation)

	password := "n3w-password"
	_, err = svc.UpdateRider(ctx, rider.ID, UpdateRiderInput{Password: &password})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "r@example.com", password)
	assert.NoError(t, err)
}

func TestListRidersIncludesActiveOrders(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t)
	f.ship(t, order.ID, f.rider.ID)

	riders, err := NewRiderService(f.db).ListRiders(context.Background())
	require.NoError(t, err)
	require.Len(t, riders, 1)
	require.Len(t, riders[0].ActiveOrders, 1)
	assert.True(t, riders[0].HasActiveOrder(order.ID))
	require.NotNil(t, riders[0].ActiveOrders[0].Order)
	assert.Equal(t, models.OrderStatusShipped, riders[0].ActiveOrders[0].Order.Status)
}
