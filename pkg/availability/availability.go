// Package availability decides what buyers may see and order. A store is
// orderable when it is ACTIVE and open; a product additionally needs its own
// availability flag.
package availability

import (
	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
	"gorm.io/gorm"
)

func IsStoreOrderable(store *models.Store) bool {
	return store != nil && store.Status == enums.StoreStatusActive && store.IsOpen
}

// IsProductOrderable requires the owning store. Passing a store that does not
// own the product is treated as not orderable.
func IsProductOrderable(product *models.Product, store *models.Store) bool {
	if product == nil || !product.IsAvailable {
		return false
	}
	if store == nil || store.ID != product.StoreID {
		return false
	}
	return IsStoreOrderable(store)
}

// EnsureStoreOrderable hides non-orderable stores behind NotFound so pending or
// closed stores never leak through public queries.
func EnsureStoreOrderable(store *models.Store) error {
	if !IsStoreOrderable(store) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Tienda no encontrada")
	}
	return nil
}

func EnsureProductOrderable(product *models.Product, store *models.Store) error {
	if !IsProductOrderable(product, store) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Producto no encontrado")
	}
	return nil
}

// OrderableStores is the SQL form of IsStoreOrderable for the stores table
// (optionally aliased).
func OrderableStores(alias string) func(*gorm.DB) *gorm.DB {
	prefix := ""
	if alias != "" {
		prefix = alias + "."
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(prefix+"status = ? AND "+prefix+"is_open = ?", enums.StoreStatusActive, true)
	}
}

// OrderableProducts is the SQL form of IsProductOrderable. It joins stores as
// "s" and filters products aliased "p".
func OrderableProducts() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN stores s ON s.id = p.store_id").
			Where("p.is_available = ?", true).
			Scopes(OrderableStores("s"))
	}
}
