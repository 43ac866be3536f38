package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/campuseats-backend/pkg/enums"
)

// Order is a priced purchase against one store. Only Status changes after
// checkout.
type Order struct {
	ID            int64              `gorm:"column:id;primaryKey;autoIncrement"`
	BuyerID       int64              `gorm:"column:buyer_id;not null"`
	StoreID       int64              `gorm:"column:store_id;not null"`
	Status        enums.OrderStatus  `gorm:"column:status;not null;default:'PENDING'"`
	Total         decimal.Decimal    `gorm:"column:total;type:numeric(10,2);not null"`
	DeliveryType  enums.DeliveryType `gorm:"column:delivery_type;not null"`
	PaymentType   enums.PaymentType  `gorm:"column:payment_type;not null"`
	GeneralNotes  *string            `gorm:"column:general_notes"`
	DeliveryNotes *string            `gorm:"column:delivery_notes"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }

// OrderLineItem freezes the unit price (base + options) at checkout. ProductID
// is a plain reference, not an owning relation.
type OrderLineItem struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   int64           `gorm:"column:order_id;not null"`
	ProductID int64           `gorm:"column:product_id;not null"`
	Position  int             `gorm:"column:position;not null;default:0"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
}

func (OrderLineItem) TableName() string { return "order_line_items" }

// Subtotal is unit price times quantity.
func (li OrderLineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// OrderLineItemOption records one selected option. Position keeps duplicate
// selections distinct.
type OrderLineItemOption struct {
	LineItemID int64 `gorm:"column:line_item_id;primaryKey"`
	Position   int   `gorm:"column:position;primaryKey"`
	OptionID   int64 `gorm:"column:option_id;not null"`
}

func (OrderLineItemOption) TableName() string { return "order_line_item_options" }
