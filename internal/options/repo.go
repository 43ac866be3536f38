package options

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/campuseats-backend/internal/repo"
	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
)

// Repository persists option categories and their options.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository running on tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Bind(tx)}
}

func (r *Repository) CreateCategory(ctx context.Context, category *models.OptionCategory) error {
	return r.DB(ctx).Create(category).Error
}

func (r *Repository) CreateOptions(ctx context.Context, opts []models.Option) error {
	if len(opts) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&opts).Error
}

func (r *Repository) FindCategoryByID(ctx context.Context, id int64) (*models.OptionCategory, error) {
	var category models.OptionCategory
	if err := r.DB(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Repository) FindOptionByID(ctx context.Context, id int64) (*models.Option, error) {
	var option models.Option
	if err := r.DB(ctx).First(&option, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

// FindOptionsByIDs returns options keyed by id.
func (r *Repository) FindOptionsByIDs(ctx context.Context, ids []int64) (map[int64]models.Option, error) {
	out := make(map[int64]models.Option, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Option
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// ListCategoriesByStore returns the store's categories oldest first.
func (r *Repository) ListCategoriesByStore(ctx context.Context, storeID int64) ([]models.OptionCategory, error) {
	var rows []models.OptionCategory
	if err := r.DB(ctx).
		Where("store_id = ?", storeID).
		Order("created_at").Order("id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListCategoriesForProduct follows the product's category links.
func (r *Repository) ListCategoriesForProduct(ctx context.Context, productID int64) ([]models.OptionCategory, error) {
	var rows []models.OptionCategory
	if err := r.DB(ctx).
		Table("option_categories AS c").
		Select("c.*").
		Joins("JOIN product_option_categories poc ON poc.category_id = c.id").
		Where("poc.product_id = ?", productID).
		Order("c.created_at").Order("c.id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// OptionsByCategory groups the options of the given categories by category id.
func (r *Repository) OptionsByCategory(ctx context.Context, categoryIDs []int64) (map[int64][]models.Option, error) {
	out := make(map[int64][]models.Option, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return out, nil
	}
	var rows []models.Option
	if err := r.DB(ctx).
		Where("category_id IN ?", categoryIDs).
		Order("position").Order("id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CategoryID] = append(out[row.CategoryID], row)
	}
	return out, nil
}
