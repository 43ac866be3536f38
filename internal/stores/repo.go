package stores

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/campuseats-backend/internal/repo"
	"github.com/angelmondragon/campuseats-backend/pkg/availability"
	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
)

// Repository handles store and schedule persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to store operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository running on tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Bind(tx)}
}

// Create persists a new store row.
func (r *Repository) Create(ctx context.Context, store *models.Store) error {
	return r.DB(ctx).Create(store).Error
}

// FindByID loads a store by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Store, error) {
	var store models.Store
	if err := r.DB(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindByIDs returns stores keyed by id.
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) (map[int64]models.Store, error) {
	out := make(map[int64]models.Store, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Store
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// FindByOwner returns the store owned by the vendor.
func (r *Repository) FindByOwner(ctx context.Context, ownerID int64) (*models.Store, error) {
	var store models.Store
	if err := r.DB(ctx).First(&store, "owner_id = ?", ownerID).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindByNameOrTaxID returns a store already holding name or taxID.
func (r *Repository) FindByNameOrTaxID(ctx context.Context, name, taxID string) (*models.Store, error) {
	var store models.Store
	if err := r.DB(ctx).Where("name = ? OR tax_id = ?", name, taxID).Order("id").First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// Update applies column updates to one store.
func (r *Repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	return r.DB(ctx).Model(&models.Store{}).Where("id = ?", id).Updates(updates).Error
}

// List returns stores newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status *enums.StoreStatus) ([]models.Store, error) {
	q := r.DB(ctx)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var rows []models.Store
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListOrderable returns the stores buyers may order from, by name.
func (r *Repository) ListOrderable(ctx context.Context) ([]models.Store, error) {
	var rows []models.Store
	if err := r.DB(ctx).
		Scopes(availability.OrderableStores("")).
		Order("name").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByStatus groups stores by lifecycle status.
func (r *Repository) CountByStatus(ctx context.Context) (map[enums.StoreStatus]int64, error) {
	var rows []struct {
		Status enums.StoreStatus
		Total  int64
	}
	if err := r.DB(ctx).
		Model(&models.Store{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[enums.StoreStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

// ListSchedules returns the store's weekday rows.
func (r *Repository) ListSchedules(ctx context.Context, storeID int64) ([]models.StoreSchedule, error) {
	var rows []models.StoreSchedule
	if err := r.DB(ctx).Where("store_id = ?", storeID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ReplaceSchedules hard-deletes the store's rows and inserts the new set.
// Callers run it inside a transaction.
func (r *Repository) ReplaceSchedules(ctx context.Context, storeID int64, rows []models.StoreSchedule) error {
	if err := r.DB(ctx).Where("store_id = ?", storeID).Delete(&models.StoreSchedule{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&rows).Error
}
