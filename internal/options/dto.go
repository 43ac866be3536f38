package options

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	"github.com/angelmondragon/campuseats-backend/pkg/types"
)

type OptionDTO struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	AdditionalPrice types.Money `json:"additionalPrice"`
}

// CategoryDTO is an option category with its options in display order.
type CategoryDTO struct {
	ID      int64       `json:"id"`
	StoreID int64       `json:"storeId"`
	Name    string      `json:"name"`
	Options []OptionDTO `json:"options"`
}

func toCategoryDTO(category models.OptionCategory, opts []models.Option) CategoryDTO {
	dto := CategoryDTO{
		ID:      category.ID,
		StoreID: category.StoreID,
		Name:    category.Name,
		Options: make([]OptionDTO, 0, len(opts)),
	}
	for _, opt := range opts {
		dto.Options = append(dto.Options, OptionDTO{
			ID:              opt.ID,
			Name:            opt.Name,
			AdditionalPrice: types.NewMoney(opt.AdditionalPrice),
		})
	}
	return dto
}

// CreateCategoryInput creates a category together with its options.
type CreateCategoryInput struct {
	Name    string
	Options []OptionInput
}

// OptionInput leaves AdditionalPrice zero for free options.
type OptionInput struct {
	Name            string
	AdditionalPrice decimal.Decimal
}
