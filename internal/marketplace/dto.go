package marketplace

import (
	"github.com/angelmondragon/campuseats-backend/internal/options"
	"github.com/angelmondragon/campuseats-backend/internal/stores"
	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
	"github.com/angelmondragon/campuseats-backend/pkg/types"
)

type StoreDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	LogoURL     *string `json:"logoUrl,omitempty"`
}

type StoreRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ProductDTO struct {
	ID             int64                        `json:"id"`
	Name           string                       `json:"name"`
	Description    *string                      `json:"description,omitempty"`
	Price          types.Money                  `json:"price"`
	ImageURL       *string                      `json:"imageUrl,omitempty"`
	Classification *enums.ProductClassification `json:"classification,omitempty"`
	Store          StoreRef                     `json:"store"`
}

// StoreDetailDTO is a store page: the store, its available products and its
// weekly schedule.
type StoreDetailDTO struct {
	StoreDTO
	Products  []ProductDTO         `json:"products"`
	Schedules []stores.ScheduleDTO `json:"schedules"`
}

// ProductDetailDTO adds the option categories a buyer can pick from.
type ProductDetailDTO struct {
	ProductDTO
	OptionCategories []options.CategoryDTO `json:"optionCategories"`
}

func storeFromModel(s models.Store) StoreDTO {
	return StoreDTO{ID: s.ID, Name: s.Name, Description: s.Description, LogoURL: s.LogoURL}
}

func productFromRow(row productRow) ProductDTO {
	return ProductDTO{
		ID:             row.ID,
		Name:           row.Name,
		Description:    row.Description,
		Price:          types.NewMoney(row.Price),
		ImageURL:       row.ImageURL,
		Classification: row.Classification,
		Store:          StoreRef{ID: row.StoreID, Name: row.StoreName},
	}
}

func productsFromRows(rows []productRow) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, productFromRow(row))
	}
	return out
}
