package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a checked-out purchase with its snapshot lines and delivery state.
type Order struct {
	BaseModel
	UserID       uuid.UUID       `gorm:"type:uuid;index" json:"user_id"`
	User         *User           `json:"user,omitempty"`
	Items        []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Total        decimal.Decimal `gorm:"type:numeric(12,2)" json:"total"`
	Status       OrderStatus     `gorm:"index;default:pending" json:"status"`
	RiderID      *uuid.UUID      `gorm:"type:uuid;index" json:"rider_id"`
	Rider        *Rider          `json:"rider,omitempty"`
	CustomerInfo CustomerInfo    `gorm:"embedded;embeddedPrefix:customer_" json:"customer_info"`
}

// OrderItem is the price snapshot of one ordered line. It does not reference
// the live catalog row, so later price edits never reach it.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID       `gorm:"type:uuid;index" json:"order_id"`
	ItemID    uuid.UUID       `gorm:"type:uuid" json:"item_id"`
	ItemName  string          `json:"item_name"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"`
	LineTotal decimal.Decimal `gorm:"type:numeric(12,2)" json:"line_total"`
}

// CustomerInfo is the contact and delivery data captured at checkout.
type CustomerInfo struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address Address `gorm:"embedded;embeddedPrefix:address_" json:"address"`
}

// Address is a postal delivery address.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}
