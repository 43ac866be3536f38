package marketplace

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/campuseats-backend/internal/repo"
	"github.com/angelmondragon/campuseats-backend/pkg/availability"
	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
)

// productRow is an orderable product with its store's name.
type productRow struct {
	models.Product `gorm:"embedded"`
	StoreName      string `gorm:"column:store_name"`
}

// ProductFilter narrows public product queries. Zero values mean no filter.
type ProductFilter struct {
	StoreID        int64
	Term           string
	Classification *enums.ProductClassification
	Limit          int
	ByPopularity   bool
}

// Repository runs the gated public product queries.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ListProducts returns orderable products matching filter.
func (r *Repository) ListProducts(ctx context.Context, filter ProductFilter) ([]productRow, error) {
	q := r.DB(ctx).
		Table("products p").
		Select("p.*, s.name AS store_name").
		Scopes(availability.OrderableProducts())

	if filter.StoreID > 0 {
		q = q.Where("p.store_id = ?", filter.StoreID)
	}
	if term := strings.TrimSpace(filter.Term); term != "" {
		q = q.Where(`LOWER(p.name) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(term))+"%")
	}
	if filter.Classification != nil {
		q = q.Where("p.classification = ?", *filter.Classification)
	}
	if filter.ByPopularity {
		q = q.
			Joins("LEFT JOIN (SELECT product_id, SUM(quantity) AS sold FROM order_line_items GROUP BY product_id) ol ON ol.product_id = p.id").
			Order("COALESCE(ol.sold, 0) DESC")
	} else {
		q = q.Order("p.name")
	}
	q = q.Order("p.id")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var rows []productRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
