package products

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/campuseats-backend/internal/repo"
	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
)

// Repository handles product persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to product operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository running on tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Bind(tx)}
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Create(product).Error
}

// FindByID loads a product regardless of availability.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs returns products keyed by id, including unavailable ones.
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error) {
	out := make(map[int64]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Product
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// Update applies column updates to one product.
func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	return r.DB(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error
}

// ListByStore returns the store's products, newest first.
func (r *Repository) ListByStore(ctx context.Context, storeID int64, includeUnavailable bool) ([]models.Product, error) {
	q := r.DB(ctx).Where("store_id = ?", storeID)
	if !includeUnavailable {
		q = q.Where("is_available = ?", true)
	}
	var rows []models.Product
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CategoryIDs lists the option categories linked to each product.
func (r *Repository) CategoryIDs(ctx context.Context, productIDs []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	var links []models.ProductOptionCategory
	if err := r.DB(ctx).
		Where("product_id IN ?", productIDs).
		Order("category_id").
		Find(&links).Error; err != nil {
		return nil, err
	}
	for _, link := range links {
		out[link.ProductID] = append(out[link.ProductID], link.CategoryID)
	}
	return out, nil
}

// AddCategory links a category to a product. Linking twice is a no-op.
func (r *Repository) AddCategory(ctx context.Context, productID, categoryID int64) error {
	return r.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProductOptionCategory{ProductID: productID, CategoryID: categoryID}).Error
}

// RemoveCategory unlinks a category and reports whether a link existed.
func (r *Repository) RemoveCategory(ctx context.Context, productID, categoryID int64) (bool, error) {
	res := r.DB(ctx).
		Where("product_id = ? AND category_id = ?", productID, categoryID).
		Delete(&models.ProductOptionCategory{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
