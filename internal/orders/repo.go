package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/campuseats-backend/internal/repo"
	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
	"github.com/angelmondragon/campuseats-backend/pkg/pagination"
)

// Repository persists orders, their line items and selected options.
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

func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.DB(ctx).Create(order).Error
}

// CreateLineItems inserts items and fills in their ids.
func (r *Repository) CreateLineItems(ctx context.Context, items []models.OrderLineItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&items).Error
}

func (r *Repository) CreateLineItemOptions(ctx context.Context, rows []models.OrderLineItemOption) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&rows).Error
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	if err := r.DB(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus overwrites the status in a single statement. It reports
// whether a row matched.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status enums.OrderStatus) (bool, error) {
	res := r.DB(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListByBuyer pages the buyer's orders newest first.
func (r *Repository) ListByBuyer(ctx context.Context, buyerID int64, params pagination.Params, cursor *pagination.Cursor) ([]models.Order, string, error) {
	return r.page(r.DB(ctx).Where("buyer_id = ?", buyerID), params, cursor)
}

// ListByStore pages the store's orders newest first.
func (r *Repository) ListByStore(ctx context.Context, storeID int64, params pagination.Params, cursor *pagination.Cursor) ([]models.Order, string, error) {
	return r.page(r.DB(ctx).Where("store_id = ?", storeID), params, cursor)
}

func (r *Repository) page(q *gorm.DB, params pagination.Params, cursor *pagination.Cursor) ([]models.Order, string, error) {
	if cursor != nil {
		q = q.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	var rows []models.Order
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error; err != nil {
		return nil, "", err
	}

	limit := pagination.NormalizeLimit(params.Limit)
	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

// LineItemsByOrders returns line items keyed by order id in cart order.
func (r *Repository) LineItemsByOrders(ctx context.Context, orderIDs []int64) (map[int64][]models.OrderLineItem, error) {
	out := make(map[int64][]models.OrderLineItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}
	var rows []models.OrderLineItem
	if err := r.DB(ctx).
		Where("order_id IN ?", orderIDs).
		Order("order_id").
		Order("position").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.OrderID] = append(out[row.OrderID], row)
	}
	return out, nil
}

// OptionsByLineItems returns selected options keyed by line item id in
// selection order.
func (r *Repository) OptionsByLineItems(ctx context.Context, lineItemIDs []int64) (map[int64][]models.OrderLineItemOption, error) {
	out := make(map[int64][]models.OrderLineItemOption, len(lineItemIDs))
	if len(lineItemIDs) == 0 {
		return out, nil
	}
	var rows []models.OrderLineItemOption
	if err := r.DB(ctx).
		Where("line_item_id IN ?", lineItemIDs).
		Order("line_item_id").
		Order("position").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.LineItemID] = append(out[row.LineItemID], row)
	}
	return out, nil
}

// CountByStatus groups every order by status.
func (r *Repository) CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	var rows []struct {
		Status enums.OrderStatus
		Total  int64
	}
	if err := r.DB(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[enums.OrderStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}
