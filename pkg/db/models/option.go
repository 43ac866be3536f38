package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OptionCategory groups related choices, e.g. "Salsas".
type OptionCategory struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	StoreID   int64     `gorm:"column:store_id;not null"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (OptionCategory) TableName() string { return "option_categories" }

type Option struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement"`
	CategoryID      int64           `gorm:"column:category_id;not null"`
	Name            string          `gorm:"column:name;not null"`
	AdditionalPrice decimal.Decimal `gorm:"column:additional_price;type:numeric(10,2);not null;default:0"`
	Position        int             `gorm:"column:position;not null;default:0"`
}

func (Option) TableName() string { return "options" }
