package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/campuseats-backend/pkg/enums"
)

// Product is a menu item. Deleting a product clears IsAvailable so historical
// line items keep resolving.
type Product struct {
	ID             int64                        `gorm:"column:id;primaryKey;autoIncrement"`
	StoreID        int64                        `gorm:"column:store_id;not null"`
	Name           string                       `gorm:"column:name;not null"`
	Description    *string                      `gorm:"column:description"`
	Price          decimal.Decimal              `gorm:"column:price;type:numeric(10,2);not null"`
	ImageURL       *string                      `gorm:"column:image_url"`
	IsAvailable    bool                         `gorm:"column:is_available;not null;default:true"`
	Classification *enums.ProductClassification `gorm:"column:classification"`
	CreatedAt      time.Time                    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                    `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

// ProductOptionCategory links a product to a customization group it offers.
type ProductOptionCategory struct {
	ProductID  int64 `gorm:"column:product_id;primaryKey"`
	CategoryID int64 `gorm:"column:category_id;primaryKey"`
}

func (ProductOptionCategory) TableName() string { return "product_option_categories" }
