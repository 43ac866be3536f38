// Package marketplace serves the buyer-facing catalog. Every listing passes
// through the availability gate: only ACTIVE, open stores and their available
// products are visible.
package marketplace

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/campuseats-backend/internal/options"
	"github.com/angelmondragon/campuseats-backend/internal/stores"
	"github.com/angelmondragon/campuseats-backend/pkg/availability"
	"github.com/angelmondragon/campuseats-backend/pkg/db"
	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
	"github.com/angelmondragon/campuseats-backend/pkg/pagination"
)

type storeReader interface {
	FindByID(ctx context.Context, id int64) (*models.Store, error)
	ListOrderable(ctx context.Context) ([]models.Store, error)
	ListSchedules(ctx context.Context, storeID int64) ([]models.StoreSchedule, error)
}

type productReader interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
}

type categoryReader interface {
	CategoriesForProduct(ctx context.Context, productID int64) ([]options.CategoryDTO, error)
}

type Service interface {
	ListActiveStores(ctx context.Context) ([]StoreDTO, error)
	GetStoreDetail(ctx context.Context, storeID int64) (*StoreDetailDTO, error)
	ListPopularProducts(ctx context.Context, limit int, classification *enums.ProductClassification) ([]ProductDTO, error)
	ListStoreProducts(ctx context.Context, storeID int64) ([]ProductDTO, error)
	// SearchProducts matches a case-insensitive substring of the product
	// name. A blank term returns the popular listing with the same limit.
	SearchProducts(ctx context.Context, term string, limit int, classification *enums.ProductClassification) ([]ProductDTO, error)
	GetProductDetail(ctx context.Context, productID int64) (*ProductDetailDTO, error)
}

type service struct {
	repo       *Repository
	stores     storeReader
	products   productReader
	categories categoryReader
}

func NewService(repo *Repository, storeRepo storeReader, productRepo productReader, categories categoryReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("marketplace repository required")
	}
	if storeRepo == nil {
		return nil, fmt.Errorf("store reader required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category reader required")
	}
	return &service{repo: repo, stores: storeRepo, products: productRepo, categories: categories}, nil
}

func (s *service) ListActiveStores(ctx context.Context) ([]StoreDTO, error) {
	rows, err := s.stores.ListOrderable(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	out := make([]StoreDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, storeFromModel(row))
	}
	return out, nil
}

func (s *service) GetStoreDetail(ctx context.Context, storeID int64) (*StoreDetailDTO, error) {
	store, err := s.orderableStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListProducts(ctx, ProductFilter{StoreID: store.ID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store products")
	}
	schedules, err := s.stores.ListSchedules(ctx, store.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list schedules")
	}
	return &StoreDetailDTO{
		StoreDTO:  storeFromModel(*store),
		Products:  productsFromRows(rows),
		Schedules: stores.SchedulesFromModels(schedules),
	}, nil
}

func (s *service) ListPopularProducts(ctx context.Context, limit int, classification *enums.ProductClassification) ([]ProductDTO, error) {
	rows, err := s.repo.ListProducts(ctx, ProductFilter{
		Classification: classification,
		Limit:          pagination.NormalizeLimit(limit),
		ByPopularity:   true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list popular products")
	}
	return productsFromRows(rows), nil
}

func (s *service) ListStoreProducts(ctx context.Context, storeID int64) ([]ProductDTO, error) {
	rows, err := s.repo.ListProducts(ctx, ProductFilter{StoreID: storeID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store products")
	}
	return productsFromRows(rows), nil
}

func (s *service) SearchProducts(ctx context.Context, term string, limit int, classification *enums.ProductClassification) ([]ProductDTO, error) {
	if strings.TrimSpace(term) == "" {
		return s.ListPopularProducts(ctx, limit, classification)
	}
	if limit <= 0 {
		limit = pagination.MaxLimit
	}
	rows, err := s.repo.ListProducts(ctx, ProductFilter{
		Term:           term,
		Classification: classification,
		Limit:          pagination.NormalizeLimit(limit),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search products")
	}
	return productsFromRows(rows), nil
}

func (s *service) GetProductDetail(ctx context.Context, productID int64) (*ProductDetailDTO, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "Producto no encontrado: %d", productID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	store, err := s.stores.FindByID(ctx, product.StoreID)
	if err != nil && !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product store")
	}
	if err := availability.EnsureProductOrderable(product, store); err != nil {
		return nil, err
	}

	categories, err := s.categories.CategoriesForProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	return &ProductDetailDTO{
		ProductDTO:       productFromRow(productRow{Product: *product, StoreName: store.Name}),
		OptionCategories: categories,
	}, nil
}

func (s *service) orderableStore(ctx context.Context, storeID int64) (*models.Store, error) {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil && !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if err := availability.EnsureStoreOrderable(store); err != nil {
		return nil, err
	}
	return store, nil
}
