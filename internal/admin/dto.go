package admin

import (
	"time"

	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
)

// StoreDTO is a store as the admin review queue shows it.
type StoreDTO struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	TaxID       string            `json:"taxId"`
	Description *string           `json:"description,omitempty"`
	LogoURL     *string           `json:"logoUrl,omitempty"`
	Status      enums.StoreStatus `json:"status"`
	IsOpen      bool              `json:"isOpen"`
	OwnerID     int64             `json:"ownerId"`
	OwnerName   string            `json:"ownerName"`
	OwnerEmail  string            `json:"ownerEmail,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// StatsDTO counts users, stores and orders. Every known enum value is present
// even when its count is zero.
type StatsDTO struct {
	TotalUsers     int64                       `json:"totalUsers"`
	UsersByRole    map[enums.UserRole]int64    `json:"usersByRole"`
	TotalStores    int64                       `json:"totalStores"`
	StoresByStatus map[enums.StoreStatus]int64 `json:"storesByStatus"`
	TotalOrders    int64                       `json:"totalOrders"`
	OrdersByStatus map[enums.OrderStatus]int64 `json:"ordersByStatus"`
}

func storeFromModel(s models.Store, owner models.User) StoreDTO {
	return StoreDTO{
		ID:          s.ID,
		Name:        s.Name,
		TaxID:       s.TaxID,
		Description: s.Description,
		LogoURL:     s.LogoURL,
		Status:      s.Status,
		IsOpen:      s.IsOpen,
		OwnerID:     s.OwnerID,
		OwnerName:   owner.FullName(),
		OwnerEmail:  owner.Email,
		CreatedAt:   s.CreatedAt,
	}
}
