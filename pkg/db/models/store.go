package models

import (
	"time"

	"github.com/angelmondragon/campuseats-backend/pkg/enums"
)

// Store is a vendor storefront. One vendor owns at most one store.
type Store struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string            `gorm:"column:name;not null;uniqueIndex"`
	TaxID       string            `gorm:"column:tax_id;not null;uniqueIndex"`
	Description *string           `gorm:"column:description"`
	LogoURL     *string           `gorm:"column:logo_url"`
	Status      enums.StoreStatus `gorm:"column:status;not null;default:'PENDING'"`
	IsOpen      bool              `gorm:"column:is_open;not null;default:false"`
	OwnerID     int64             `gorm:"column:owner_id;not null;uniqueIndex"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Store) TableName() string { return "stores" }

// StoreSchedule is one weekday row. Times are store-local "HH:MM" strings.
type StoreSchedule struct {
	ID       int64         `gorm:"column:id;primaryKey;autoIncrement"`
	StoreID  int64         `gorm:"column:store_id;not null"`
	Weekday  enums.Weekday `gorm:"column:weekday;not null"`
	IsOpen   bool          `gorm:"column:is_open;not null;default:false"`
	OpensAt  *string       `gorm:"column:opens_at"`
	ClosesAt *string       `gorm:"column:closes_at"`
}

func (StoreSchedule) TableName() string { return "store_schedules" }
