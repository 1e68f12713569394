package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationJSON(t *testing.T) {
	data, err := json.Marshal(Location{Longitude: 13.4, Latitude: 52.5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Point","coordinates":[13.4,52.5]}`, string(data))

	var loc Location
	require.NoError(t, json.Unmarshal([]byte(`{"type":"Point","coordinates":[-0.12,51.5]}`), &loc))
	assert.Equal(t, -0.12, loc.Longitude)
	assert.Equal(t, 51.5, loc.Latitude)
}

func TestRiderHasActiveOrder(t *testing.T) {
	orderID := uuid.New()
	rider := Rider{ActiveOrders: []RiderActiveOrder{{OrderID: orderID}}}

	assert.True(t, rider.HasActiveOrder(orderID))
	assert.False(t, rider.HasActiveOrder(uuid.New()))
	assert.True(t, RiderStatusBusy.Valid())
	assert.False(t, RiderStatus("sleeping").Valid())
}
