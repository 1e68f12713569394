package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RiderStatus is a rider's self-reported availability.
type RiderStatus string

const (
	RiderStatusAvailable RiderStatus = "available"
	RiderStatusBusy      RiderStatus = "busy"
	RiderStatusOffline   RiderStatus = "offline"
)

// Valid reports whether s is a known rider status.
func (s RiderStatus) Valid() bool {
	return s == RiderStatusAvailable || s == RiderStatusBusy || s == RiderStatusOffline
}

// Rider is a delivery agent.
type Rider struct {
	BaseModel
	Name            string             `json:"name"`
	Email           string             `gorm:"uniqueIndex" json:"email"`
	Phone           string             `json:"phone"`
	PasswordHash    string             `json:"-"`
	Status          RiderStatus        `gorm:"index;default:available" json:"status"`
	CurrentLocation Location           `gorm:"embedded;embeddedPrefix:location_" json:"current_location"`
	ActiveOrders    []RiderActiveOrder `json:"active_orders"`
}

// HasActiveOrder reports whether orderID is in the rider's loaded active orders.
func (r *Rider) HasActiveOrder(orderID uuid.UUID) bool {
	for _, a := range r.ActiveOrders {
		if a.OrderID == orderID {
			return true
		}
	}
	return false
}

// RiderActiveOrder links a rider to a shipped order it still has to deliver.
type RiderActiveOrder struct {
	RiderID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"rider_id"`
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"order_id"`
	AssignedAt time.Time `json:"assigned_at"`
	Order      *Order    `json:"order,omitempty"`
}

// Location is a longitude/latitude pair, encoded as a GeoJSON point.
type Location struct {
	Longitude float64
	Latitude  float64
}

type geoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// MarshalJSON renders the location as {"type":"Point","coordinates":[lng,lat]}.
func (l Location) MarshalJSON() ([]byte, error) {
	return json.Marshal(geoPoint{Type: "Point", Coordinates: [2]float64{l.Longitude, l.Latitude}})
}

// UnmarshalJSON accepts the GeoJSON point form.
func (l *Location) UnmarshalJSON(data []byte) error {
	var p geoPoint
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	l.Longitude, l.Latitude = p.Coordinates[0], p.Coordinates[1]
	return nil
}
