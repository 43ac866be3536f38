package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/campuseats-backend/internal/marketplace"
	"github.com/angelmondragon/campuseats-backend/internal/options"
	"github.com/angelmondragon/campuseats-backend/internal/products"
	"github.com/angelmondragon/campuseats-backend/internal/stores"
	"github.com/angelmondragon/campuseats-backend/pkg/db"
	"github.com/angelmondragon/campuseats-backend/pkg/db/dbtest"
	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
	"github.com/angelmondragon/campuseats-backend/pkg/logger"
)

func TestMarketplaceBlankSearchReturnsPopularSet(t *testing.T) {
	conn := dbtest.Open(t)
	store := models.Store{Name: "Cafetería Central", TaxID: "900", Status: enums.StoreStatusActive, IsOpen: true, OwnerID: 1}
	dbtest.Create(t, conn, &store)
	for i := 0; i < 30; i++ {
		dbtest.Create(t, conn, &models.Product{
			StoreID:     store.ID,
			Name:        fmt.Sprintf("Empanada %02d", i),
			Price:       decimal.NewFromInt(3000),
			IsAvailable: true,
		})
	}

	optionSvc, err := options.NewService(db.FromGorm(conn), options.NewRepository(conn))
	require.NoError(t, err)
	svc, err := marketplace.NewService(marketplace.NewRepository(conn), stores.NewRepository(conn), products.NewRepository(conn), optionSvc)
	require.NoError(t, err)

	popularResp := httptest.NewRecorder()
	MarketplacePopularProducts(svc, marketplaceCfg, logger.Nop()).
		ServeHTTP(popularResp, httptest.NewRequest(http.MethodGet, "/api/v1/marketplace/products", nil))
	require.Equal(t, http.StatusOK, popularResp.Code)

	searchResp := httptest.NewRecorder()
	MarketplaceSearch(svc, marketplaceCfg, logger.Nop()).
		ServeHTTP(searchResp, httptest.NewRequest(http.MethodGet, "/api/v1/marketplace/search?q=%20", nil))
	require.Equal(t, http.StatusOK, searchResp.Code)

	var popular, blank []marketplace.ProductDTO
	decodeData(t, popularResp, &popular)
	decodeData(t, searchResp, &blank)
	require.Len(t, popular, marketplaceCfg.PopularLimit)
	require.Equal(t, popular, blank)
}
