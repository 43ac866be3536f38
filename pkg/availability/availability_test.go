package availability

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/campuseats-backend/pkg/db/dbtest"
	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
)

func orderableStore() *models.Store {
	return &models.Store{ID: 1, Name: "Arepas UN", Status: enums.StoreStatusActive, IsOpen: true}
}

func TestIsStoreOrderable(t *testing.T) {
	cases := []struct {
		name   string
		status enums.StoreStatus
		open   bool
		want   bool
	}{
		{"active open", enums.StoreStatusActive, true, true},
		{"active closed", enums.StoreStatusActive, false, false},
		{"pending open", enums.StoreStatusPending, true, false},
		{"inactive open", enums.StoreStatusInactive, true, false},
		{"inactive closed", enums.StoreStatusInactive, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &models.Store{ID: 1, Status: tc.status, IsOpen: tc.open}
			assert.Equal(t, tc.want, IsStoreOrderable(store))
		})
	}
	assert.False(t, IsStoreOrderable(nil))
}

func TestIsProductOrderable(t *testing.T) {
	store := orderableStore()
	available := &models.Product{ID: 10, StoreID: 1, IsAvailable: true}
	disabled := &models.Product{ID: 11, StoreID: 1, IsAvailable: false}

	assert.True(t, IsProductOrderable(available, store))
	assert.False(t, IsProductOrderable(disabled, store), "unavailable product is never orderable")

	for _, s := range []*models.Store{
		{ID: 1, Status: enums.StoreStatusActive, IsOpen: false},
		{ID: 1, Status: enums.StoreStatusPending, IsOpen: true},
		{ID: 1, Status: enums.StoreStatusInactive, IsOpen: true},
	} {
		assert.False(t, IsProductOrderable(disabled, s))
		assert.False(t, IsProductOrderable(available, s))
	}

	assert.False(t, IsProductOrderable(available, &models.Store{ID: 2, Status: enums.StoreStatusActive, IsOpen: true}))
	assert.False(t, IsProductOrderable(available, nil))
	assert.False(t, IsProductOrderable(nil, store))
}

func TestEnsureHelpersReturnNotFound(t *testing.T) {
	err := EnsureStoreOrderable(&models.Store{Status: enums.StoreStatusPending})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "Tienda no encontrada", pkgerrors.As(err).Message())

	require.NoError(t, EnsureStoreOrderable(orderableStore()))

	err = EnsureProductOrderable(&models.Product{StoreID: 1}, orderableStore())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestOrderableProductsScopeMatchesPredicate(t *testing.T) {
	db := dbtest.Open(t)

	stores := []models.Store{
		{Name: "open", TaxID: "1", OwnerID: 1, Status: enums.StoreStatusActive, IsOpen: true},
		{Name: "closed", TaxID: "2", OwnerID: 2, Status: enums.StoreStatusActive, IsOpen: false},
		{Name: "pending", TaxID: "3", OwnerID: 3, Status: enums.StoreStatusPending, IsOpen: true},
	}
	require.NoError(t, db.Create(&stores).Error)
	require.NoError(t, db.Model(&models.Store{}).Where("id = ?", stores[1].ID).Update("is_open", false).Error)

	price := decimal.RequireFromString("8000")
	products := []models.Product{
		{StoreID: stores[0].ID, Name: "ok", Price: price, IsAvailable: true},
		{StoreID: stores[0].ID, Name: "disabled", Price: price, IsAvailable: true},
		{StoreID: stores[1].ID, Name: "closed store", Price: price, IsAvailable: true},
		{StoreID: stores[2].ID, Name: "pending store", Price: price, IsAvailable: true},
	}
	require.NoError(t, db.Create(&products).Error)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", products[1].ID).Update("is_available", false).Error)

	var names []string
	require.NoError(t, db.Table("products p").Scopes(OrderableProducts()).Order("p.id").Pluck("p.name", &names).Error)
	assert.Equal(t, []string{"ok"}, names)

	var storeNames []string
	require.NoError(t, db.Model(&models.Store{}).Scopes(OrderableStores("")).Pluck("name", &storeNames).Error)
	assert.Equal(t, []string{"open"}, storeNames)
}
