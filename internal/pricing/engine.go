// Package pricing computes line-item unit prices from the current catalog.
package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/campuseats-backend/pkg/db"
	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
)

type productFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
}

type optionFinder interface {
	FindOptionByID(ctx context.Context, id int64) (*models.Option, error)
}

// Quote is a priced line: the resolved product, the resolved options in the
// order they were requested, and the unit price.
type Quote struct {
	Product   models.Product
	Options   []models.Option
	UnitPrice decimal.Decimal
}

// Engine resolves catalog rows and prices a single line. It is read-only.
type Engine struct {
	products productFinder
	options  optionFinder
}

func NewEngine(products productFinder, options optionFinder) (*Engine, error) {
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if options == nil {
		return nil, fmt.Errorf("option finder required")
	}
	return &Engine{products: products, options: options}, nil
}

// PriceLine prices one unit of productID with the given options. Any option in
// the catalog is accepted and repeated ids are charged once per occurrence.
func (e *Engine) PriceLine(ctx context.Context, productID int64, quantity int, optionIDs []int64) (*Quote, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "La cantidad debe ser al menos 1.")
	}

	product, err := e.products.FindByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "Producto no encontrado: %d", productID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	opts := make([]models.Option, 0, len(optionIDs))
	for _, id := range optionIDs {
		opt, err := e.options.FindOptionByID(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "Opción no encontrada: %d", id)
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load option")
		}
		opts = append(opts, *opt)
	}

	return &Quote{
		Product:   *product,
		Options:   opts,
		UnitPrice: UnitPrice(product.Price, opts),
	}, nil
}

// UnitPrice is the base price plus every option's additional price, at two
// decimal places.
func UnitPrice(base decimal.Decimal, opts []models.Option) decimal.Decimal {
	total := base
	for _, opt := range opts {
		total = total.Add(opt.AdditionalPrice)
	}
	return total.Round(2)
}

// LineSubtotal is unit price times quantity.
func LineSubtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
