package enums

import "fmt"

// OrderStatus tracks an order through vendor preparation.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "PENDING"
	OrderStatusInPreparation  OrderStatus = "EN_PREPARACION"
	OrderStatusReadyForPickup OrderStatus = "LISTO_PARA_RECOGER"
	OrderStatusCanceled       OrderStatus = "CANCELADO"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusInPreparation,
	OrderStatusReadyForPickup,
	OrderStatusCanceled,
}

// String implements fmt.Stringer.
func (v OrderStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known OrderStatus.
func (v OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into a OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// Step is the position of the status along the preparation path. Canceled
// sits outside the path and reports -1.
func (v OrderStatus) Step() int {
	switch v {
	case OrderStatusPending:
		return 0
	case OrderStatusInPreparation:
		return 1
	case OrderStatusReadyForPickup:
		return 2
	default:
		return -1
	}
}

// IsTerminal reports whether no further vendor action is expected.
func (v OrderStatus) IsTerminal() bool {
	return v == OrderStatusReadyForPickup || v == OrderStatusCanceled
}

// OrderStatuses lists every order status in path order, canceled last.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(validOrderStatuses))
	copy(out, validOrderStatuses)
	return out
}
