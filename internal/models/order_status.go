package models

// OrderStatus is a state of the order lifecycle.
type OrderStatus string

const (
	OrderStatusPending     OrderStatus = "pending"
	OrderStatusProcessing  OrderStatus = "processing"
	OrderStatusShipped     OrderStatus = "shipped"
	OrderStatusDelivered   OrderStatus = "delivered"
	OrderStatusUndelivered OrderStatus = "undelivered"
	OrderStatusCancelled   OrderStatus = "cancelled"
)

// adminTransitions lists the statuses an admin may move an order to.
// shipped -> shipped is a rider re-assignment.
var adminTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusShipped, OrderStatusCancelled},
}

// riderTransitions lists the statuses the assigned rider may move an order to.
var riderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusShipped: {OrderStatusDelivered, OrderStatusUndelivered},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusUndelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are expected from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusUndelivered || s == OrderStatusCancelled
}

// IsDeliveryOutcome reports whether s is a status only the assigned rider sets.
func (s OrderStatus) IsDeliveryOutcome() bool {
	return s == OrderStatusDelivered || s == OrderStatusUndelivered
}

// CanAdminTransition reports whether an admin may move an order from s to next.
func (s OrderStatus) CanAdminTransition(next OrderStatus) bool {
	return contains(adminTransitions[s], next)
}

// CanRiderTransition reports whether the assigned rider may move an order from s to next.
func (s OrderStatus) CanRiderTransition(next OrderStatus) bool {
	return contains(riderTransitions[s], next)
}

func contains(statuses []OrderStatus, target OrderStatus) bool {
	for _, s := range statuses {
		if s == target {
			return true
		}
	}
	return false
}
