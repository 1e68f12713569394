package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/ecomm/internal/events"
	"github.com/example/ecomm/internal/models"
)

// OrderService owns checkout and the order status lifecycle.
type OrderService struct {
	db     *gorm.DB
	events events.Publisher
}

// NewOrderService constructs OrderService. A nil publisher disables events.
func NewOrderService(db *gorm.DB, publisher events.Publisher) *OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &OrderService{db: db, events: publisher}
}

// CreateOrderInput is a checkout request. When Items is empty the user's cart
// is checked out and cleared.
type CreateOrderInput struct {
	CustomerInfo models.CustomerInfo
	Items        []CartItemInput
}

// UpdateStatusInput is an admin status change with optional rider assignment.
type UpdateStatusInput struct {
	OrderID uuid.UUID
	Status  models.OrderStatus
	RiderID *uuid.UUID
}

// OrderFilter scopes ListOrders to what the requester may see.
type OrderFilter struct {
	Requester models.Principal
	Status    models.OrderStatus
	Limit     int
	Offset    int
}

// CreateOrder snapshots the selected lines at current catalog prices and
// stores a pending order. Cart checkout clears the cart in the same transaction.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, in CreateOrderInput) (*models.Order, error) {
	if err := validateCustomerInfo(in.CustomerInfo); err != nil {
		return nil, err
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fromCart := len(in.Items) == 0
		lines := in.Items
		if fromCart {
			entries, err := loadCartEntries(tx, userID)
			if err != nil {
				return err
			}
			for _, e := range entries {
				lines = append(lines, CartItemInput{ItemID: e.ItemID, Quantity: e.Quantity, Color: e.Color, Size: e.Size})
			}
		}
		if len(lines) == 0 {
			return newError(ErrEmptyCart, "cart is empty")
		}

		items, total, err := snapshotLines(tx, lines)
		if err != nil {
			return err
		}

		order = models.Order{
			UserID:       userID,
			Items:        items,
			Total:        total,
			Status:       models.OrderStatusPending,
			CustomerInfo: in.CustomerInfo,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if fromCart {
			return tx.Where("user_id = ?", userID).Delete(&models.CartEntry{}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Order] order %s created for user %s, total %s", order.ID, userID, order.Total)
	s.publish(ctx, events.TypeOrderCreated, &order, "")
	return &order, nil
}

// UpdateOrderStatus applies an admin transition. Moving to shipped assigns the
// given rider; re-shipping to another rider moves the assignment.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, in UpdateStatusInput) (*models.Order, error) {
	if !in.Status.Valid() {
		return nil, newError(ErrInvalidStatus, "invalid status %q", in.Status)
	}

	var previous models.OrderStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := loadOrder(lockForUpdate(tx), in.OrderID)
		if err != nil {
			return err
		}

		var rider *models.Rider
		if in.RiderID != nil {
			if rider, err = loadRider(tx, *in.RiderID); err != nil {
				return err
			}
		}

		if !order.Status.CanAdminTransition(in.Status) {
			return newError(ErrInvalidTransition, "cannot change order status from %s to %s", order.Status, in.Status)
		}
		previous = order.Status

		switch in.Status {
		case models.OrderStatusShipped:
			if rider == nil {
				return newError(ErrValidation, "rider_id is required to ship an order")
			}
			if err := reassignRider(tx, order, rider); err != nil {
				return err
			}
		case models.OrderStatusCancelled:
			if order.RiderID != nil {
				if err := releaseRider(tx, *order.RiderID, order.ID); err != nil {
					return err
				}
			}
		}

		return tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]any{
			"status":   in.Status,
			"rider_id": order.RiderID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	order, err := loadOrder(s.db.WithContext(ctx), in.OrderID)
	if err != nil {
		return nil, err
	}

	log.Printf("[Order] order %s status %s -> %s", order.ID, previous, order.Status)
	s.publish(ctx, events.TypeOrderStatusChanged, order, previous)
	return order, nil
}

// UpdateDeliveryStatus records the delivery outcome reported by the assigned rider.
func (s *OrderService) UpdateDeliveryStatus(ctx context.Context, riderID, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	var previous models.OrderStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := loadOrder(lockForUpdate(tx), orderID)
		if err != nil {
			return err
		}

		if order.RiderID == nil || *order.RiderID != riderID {
			return newError(ErrForbidden, "not authorized to update this order")
		}
		if !status.IsDeliveryOutcome() {
			return newError(ErrInvalidStatus, "status must be delivered or undelivered")
		}
		if !order.Status.CanRiderTransition(status) {
			return newError(ErrInvalidTransition, "cannot change order status from %s to %s", order.Status, status)
		}
		previous = order.Status

		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", status).Error; err != nil {
			return err
		}
		return releaseRider(tx, riderID, orderID)
	})
	if err != nil {
		return nil, err
	}

	order, err := loadOrder(s.db.WithContext(ctx), orderID)
	if err != nil {
		return nil, err
	}

	log.Printf("[Order] rider %s marked order %s %s", riderID, orderID, status)
	s.publish(ctx, events.TypeOrderStatusChanged, order, previous)
	return order, nil
}

// GetOrder returns one order. Customers may only read their own orders.
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID, requester models.Principal) (*models.Order, error) {
	order, err := loadOrder(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}

	if requester.IsUser() && order.UserID != requester.ID {
		return nil, newError(ErrForbidden, "not authorized to view this order")
	}
	return order, nil
}

// ListOrders returns the orders visible to the requester, newest first.
func (s *OrderService) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{})

	switch {
	case f.Requester.IsAdmin():
		query = query.Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email", "role", "created_at", "updated_at")
		})
	case f.Requester.IsUser():
		query = query.Where("user_id = ?", f.Requester.ID)
	case f.Requester.IsRider():
		query = query.Where("rider_id = ?", f.Requester.ID)
	default:
		return nil, 0, newError(ErrForbidden, "access denied")
	}

	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		query = query.Limit(f.Limit).Offset(f.Offset)
	}

	var orders []models.Order
	if err := query.Preload("Items").Preload("Rider").
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *models.Order, previous models.OrderStatus) {
	event := events.OrderEvent{
		Type:           eventType,
		OrderID:        order.ID,
		UserID:         order.UserID,
		Status:         string(order.Status),
		PreviousStatus: string(previous),
		RiderID:        order.RiderID,
		Total:          order.Total,
		OccurredAt:     time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, order.ID.String(), event); err != nil {
		log.Printf("[Order] failed to publish %s for order %s: %v", eventType, order.ID, err)
	}
}

func snapshotLines(tx *gorm.DB, lines []CartItemInput) ([]models.OrderItem, decimal.Decimal, error) {
	total := decimal.Zero
	catalog := make(map[uuid.UUID]*models.Item)
	items := make([]models.OrderItem, 0, len(lines))

	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, total, newError(ErrValidation, "quantity must be at least 1")
		}

		item, ok := catalog[line.ItemID]
		if !ok {
			loaded, err := loadItem(tx, line.ItemID)
			if err != nil {
				return nil, total, err
			}
			item = loaded
			catalog[line.ItemID] = item
		}

		variation, ok := item.Variation(line.Color, line.Size)
		if !ok {
			return nil, total, newError(ErrNotFound, "%s is no longer available in %s/%s", item.Name, line.Color, line.Size)
		}
		if line.Quantity > variation.Stock {
			return nil, total, newError(ErrInsufficientStock, "only %d of %s left in stock", variation.Stock, item.Name)
		}

		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, models.OrderItem{
			ItemID:    item.ID,
			ItemName:  item.Name,
			Color:     line.Color,
			Size:      line.Size,
			Quantity:  line.Quantity,
			Price:     item.Price,
			LineTotal: lineTotal,
		})
		total = total.Add(lineTotal)
	}

	return items, total, nil
}

// lockForUpdate takes a row lock on the loaded order so concurrent status
// changes serialize. SQLite ignores the clause.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func loadOrder(db *gorm.DB, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").Preload("Rider").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("order")
		}
		return nil, err
	}
	return &order, nil
}

func validateCustomerInfo(info models.CustomerInfo) error {
	if strings.TrimSpace(info.Name) == "" || strings.TrimSpace(info.Email) == "" || strings.TrimSpace(info.Phone) == "" {
		return newError(ErrValidation, "customer name, email and phone are required")
	}
	return nil
}
