package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/campuseats-backend/pkg/enums"
	"github.com/angelmondragon/campuseats-backend/pkg/types"
)

// LineItemDTO is one priced line with the option names captured at checkout.
type LineItemDTO struct {
	ProductID           int64       `json:"productId"`
	ProductName         string      `json:"productName"`
	Quantity            int         `json:"quantity"`
	UnitPrice           types.Money `json:"unitPrice"`
	Subtotal            types.Money `json:"subtotal"`
	SelectedOptionNames []string    `json:"selectedOptionNames"`
}

// OrderDTO is returned right after checkout.
type OrderDTO struct {
	ID        int64             `json:"id"`
	CreatedAt time.Time         `json:"createdAt"`
	Status    enums.OrderStatus `json:"status"`
	Total     types.Money       `json:"total"`
	StoreName string            `json:"storeName"`
	Items     []LineItemDTO     `json:"items"`
}

// BuyerOrderDTO is the buyer's history row with flattened item descriptions.
type BuyerOrderDTO struct {
	ID           int64              `json:"id"`
	CreatedAt    time.Time          `json:"createdAt"`
	Status       enums.OrderStatus  `json:"status"`
	Total        types.Money        `json:"total"`
	StoreID      int64              `json:"storeId"`
	StoreName    string             `json:"storeName"`
	DeliveryType enums.DeliveryType `json:"deliveryType"`
	PaymentType  enums.PaymentType  `json:"paymentType"`
	Items        []string           `json:"items"`
}

// VendorOrderDTO is the store's queue row with structured line items.
type VendorOrderDTO struct {
	ID            int64              `json:"id"`
	CreatedAt     time.Time          `json:"createdAt"`
	Status        enums.OrderStatus  `json:"status"`
	Total         types.Money        `json:"total"`
	BuyerID       int64              `json:"buyerId"`
	BuyerName     string             `json:"buyerName"`
	DeliveryType  enums.DeliveryType `json:"deliveryType"`
	PaymentType   enums.PaymentType  `json:"paymentType"`
	GeneralNotes  *string            `json:"generalNotes,omitempty"`
	DeliveryNotes *string            `json:"deliveryNotes,omitempty"`
	Items         []LineItemDTO      `json:"items"`
}

// Summary renders a line as "2x Burger (+ BBQ, + Queso)".
func (li LineItemDTO) Summary() string {
	base := fmt.Sprintf("%dx %s", li.Quantity, li.ProductName)
	if len(li.SelectedOptionNames) == 0 {
		return base
	}
	parts := make([]string, len(li.SelectedOptionNames))
	for i, name := range li.SelectedOptionNames {
		parts[i] = "+ " + name
	}
	return base + " (" + strings.Join(parts, ", ") + ")"
}
