package products

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
	"github.com/angelmondragon/campuseats-backend/pkg/storage"
	"github.com/angelmondragon/campuseats-backend/pkg/types"
)

// ProductDTO is the vendor-facing product shape.
type ProductDTO struct {
	ID             int64                        `json:"id"`
	StoreID        int64                        `json:"storeId"`
	Name           string                       `json:"name"`
	Description    *string                      `json:"description,omitempty"`
	Price          types.Money                  `json:"price"`
	ImageURL       *string                      `json:"imageUrl,omitempty"`
	IsAvailable    bool                         `json:"isAvailable"`
	Classification *enums.ProductClassification `json:"classification,omitempty"`
	CategoryIDs    []int64                      `json:"optionCategoryIds"`
	CreatedAt      time.Time                    `json:"createdAt"`
}

// FromModel maps a product row. categoryIDs may be nil.
func FromModel(p models.Product, categoryIDs []int64) ProductDTO {
	if categoryIDs == nil {
		categoryIDs = []int64{}
	}
	return ProductDTO{
		ID:             p.ID,
		StoreID:        p.StoreID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          types.NewMoney(p.Price),
		ImageURL:       p.ImageURL,
		IsAvailable:    p.IsAvailable,
		Classification: p.Classification,
		CategoryIDs:    categoryIDs,
		CreatedAt:      p.CreatedAt,
	}
}

// CreateProductInput captures a new menu item.
type CreateProductInput struct {
	Name           string
	Description    *string
	Price          decimal.Decimal
	Classification *enums.ProductClassification
	Image          *storage.Object
}

// UpdateProductInput is a partial update; nil fields are left untouched.
type UpdateProductInput struct {
	Name           *string
	Description    *string
	Price          *decimal.Decimal
	Classification *enums.ProductClassification
	IsAvailable    *bool
	Image          *storage.Object
}
