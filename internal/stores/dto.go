package stores

import (
	"time"

	"github.com/angelmondragon/campuseats-backend/internal/products"
	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
	"github.com/angelmondragon/campuseats-backend/pkg/storage"
)

// StoreDTO exposes store data in vendor and admin responses.
type StoreDTO struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	TaxID       string            `json:"taxId"`
	Description *string           `json:"description,omitempty"`
	LogoURL     *string           `json:"logoUrl,omitempty"`
	Status      enums.StoreStatus `json:"status"`
	IsOpen      bool              `json:"isOpen"`
	OwnerID     int64             `json:"ownerId"`
	CreatedAt   time.Time         `json:"createdAt"`
}

func FromModel(s models.Store) StoreDTO {
	return StoreDTO{
		ID:          s.ID,
		Name:        s.Name,
		TaxID:       s.TaxID,
		Description: s.Description,
		LogoURL:     s.LogoURL,
		Status:      s.Status,
		IsOpen:      s.IsOpen,
		OwnerID:     s.OwnerID,
		CreatedAt:   s.CreatedAt,
	}
}

type ScheduleDTO struct {
	Weekday  enums.Weekday `json:"weekday"`
	IsOpen   bool          `json:"isOpen"`
	OpensAt  *string       `json:"opensAt,omitempty"`
	ClosesAt *string       `json:"closesAt,omitempty"`
}

// SchedulesFromModels maps rows in Monday..Sunday order.
func SchedulesFromModels(rows []models.StoreSchedule) []ScheduleDTO {
	byDay := make(map[enums.Weekday]models.StoreSchedule, len(rows))
	for _, row := range rows {
		byDay[row.Weekday] = row
	}
	out := make([]ScheduleDTO, 0, len(rows))
	for _, day := range enums.Weekdays() {
		row, ok := byDay[day]
		if !ok {
			continue
		}
		out = append(out, ScheduleDTO{
			Weekday:  row.Weekday,
			IsOpen:   row.IsOpen,
			OpensAt:  row.OpensAt,
			ClosesAt: row.ClosesAt,
		})
	}
	return out
}

// DashboardDTO is the vendor's view of their own store.
type DashboardDTO struct {
	Store     StoreDTO              `json:"store"`
	Products  []products.ProductDTO `json:"products"`
	Schedules []ScheduleDTO         `json:"schedules"`
}

type CreateStoreInput struct {
	Name        string
	TaxID       string
	Description *string
	Logo        *storage.Object
}

// UpdateStoreInput is a partial update; nil fields are left untouched.
type UpdateStoreInput struct {
	Name        *string
	Description *string
	Logo        *storage.Object
}

// ScheduleInput is one weekday entry of a bulk schedule edit. Times use HH:mm.
type ScheduleInput struct {
	Weekday  enums.Weekday
	IsOpen   bool
	OpensAt  *string
	ClosesAt *string
}
