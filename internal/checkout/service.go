// Package checkout assembles a buyer's cart into a persisted order.
package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/campuseats-backend/internal/options"
	"github.com/angelmondragon/campuseats-backend/internal/orders"
	"github.com/angelmondragon/campuseats-backend/internal/pricing"
	"github.com/angelmondragon/campuseats-backend/internal/products"
	"github.com/angelmondragon/campuseats-backend/internal/stores"
	"github.com/angelmondragon/campuseats-backend/pkg/db"
	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
	"github.com/angelmondragon/campuseats-backend/pkg/logger"
	"github.com/angelmondragon/campuseats-backend/pkg/metrics"
	"github.com/angelmondragon/campuseats-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CartItem is one requested line. OptionIDs may repeat.
type CartItem struct {
	ProductID int64
	Quantity  int
	OptionIDs []int64
}

// Cart is the checkout request. Prices are never client supplied.
type Cart struct {
	StoreID       int64
	Items         []CartItem
	DeliveryType  enums.DeliveryType
	PaymentType   enums.PaymentType
	GeneralNotes  *string
	DeliveryNotes *string
}

// Service executes checkout.
type Service interface {
	CreateOrder(ctx context.Context, buyerID int64, cart Cart) (*orders.OrderDTO, error)
}

type service struct {
	tx       txRunner
	stores   *stores.Repository
	products *products.Repository
	options  *options.Repository
	orders   *orders.Repository
	metrics  *metrics.OrderMetrics
	logg     *logger.Logger
}

// NewService builds the checkout service. m may be nil.
func NewService(
	tx txRunner,
	storeRepo *stores.Repository,
	productRepo *products.Repository,
	optionRepo *options.Repository,
	orderRepo *orders.Repository,
	m *metrics.OrderMetrics,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if storeRepo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if optionRepo == nil {
		return nil, fmt.Errorf("option repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:       tx,
		stores:   storeRepo,
		products: productRepo,
		options:  optionRepo,
		orders:   orderRepo,
		metrics:  m,
		logg:     logg,
	}, nil
}

type pricedLine struct {
	item  models.OrderLineItem
	quote *pricing.Quote
}

// CreateOrder resolves the store, prices every line against the current
// catalog and persists the order with its lines in one transaction. The store
// is not checked for orderability here.
func (s *service) CreateOrder(ctx context.Context, buyerID int64, cart Cart) (*orders.OrderDTO, error) {
	if err := validateCart(cart); err != nil {
		s.metrics.IncCheckoutFailure(string(pkgerrors.CodeValidation))
		return nil, err
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"buyer_id": buyerID, "store_id": cart.StoreID})

	var (
		order models.Order
		store *models.Store
		lines []pricedLine
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		storeRepo := s.stores.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)
		engine, err := pricing.NewEngine(s.products.WithTx(tx), s.options.WithTx(tx))
		if err != nil {
			return err
		}

		store, err = storeRepo.FindByID(ctx, cart.StoreID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Tienda no encontrada")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
		}

		total := decimal.Zero
		lines = make([]pricedLine, 0, len(cart.Items))
		for i, item := range cart.Items {
			quote, err := engine.PriceLine(ctx, item.ProductID, item.Quantity, item.OptionIDs)
			if err != nil {
				return err
			}
			total = total.Add(pricing.LineSubtotal(quote.UnitPrice, item.Quantity))
			lines = append(lines, pricedLine{
				item: models.OrderLineItem{
					ProductID: quote.Product.ID,
					Position:  i,
					Quantity:  item.Quantity,
					UnitPrice: quote.UnitPrice,
				},
				quote: quote,
			})
		}

		order = models.Order{
			BuyerID:       buyerID,
			StoreID:       store.ID,
			Status:        enums.OrderStatusPending,
			Total:         total.Round(2),
			DeliveryType:  cart.DeliveryType,
			PaymentType:   cart.PaymentType,
			GeneralNotes:  trimmedOrNil(cart.GeneralNotes),
			DeliveryNotes: trimmedOrNil(cart.DeliveryNotes),
		}
		if err := orderRepo.Create(ctx, &order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		items := make([]models.OrderLineItem, len(lines))
		for i := range lines {
			lines[i].item.OrderID = order.ID
			items[i] = lines[i].item
		}
		if err := orderRepo.CreateLineItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create line items")
		}

		var selected []models.OrderLineItemOption
		for i := range lines {
			lines[i].item.ID = items[i].ID
			for pos, opt := range lines[i].quote.Options {
				selected = append(selected, models.OrderLineItemOption{
					LineItemID: items[i].ID,
					Position:   pos,
					OptionID:   opt.ID,
				})
			}
		}
		if err := orderRepo.CreateLineItemOptions(ctx, selected); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create line item options")
		}
		return nil
	})
	if err != nil {
		s.metrics.IncCheckoutFailure(failureCode(err))
		return nil, err
	}

	s.metrics.ObserveCreated(string(order.DeliveryType), string(order.PaymentType), order.Total)
	s.logg.Info(s.logg.WithOrderID(ctx, order.ID), "checkout.order_created")
	return toDTO(order, store.Name, lines), nil
}

func validateCart(cart Cart) error {
	if len(cart.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "El carrito está vacío.")
	}
	if !cart.DeliveryType.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "Tipo de entrega inválido: %s", cart.DeliveryType)
	}
	if !cart.PaymentType.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "Tipo de pago inválido: %s", cart.PaymentType)
	}
	return nil
}

func toDTO(order models.Order, storeName string, lines []pricedLine) *orders.OrderDTO {
	items := make([]orders.LineItemDTO, 0, len(lines))
	for _, line := range lines {
		names := make([]string, 0, len(line.quote.Options))
		for _, opt := range line.quote.Options {
			names = append(names, opt.Name)
		}
		items = append(items, orders.LineItemDTO{
			ProductID:           line.item.ProductID,
			ProductName:         line.quote.Product.Name,
			Quantity:            line.item.Quantity,
			UnitPrice:           types.NewMoney(line.item.UnitPrice),
			Subtotal:            types.NewMoney(line.item.Subtotal()),
			SelectedOptionNames: names,
		})
	}
	return &orders.OrderDTO{
		ID:        order.ID,
		CreatedAt: order.CreatedAt,
		Status:    order.Status,
		Total:     types.NewMoney(order.Total),
		StoreName: storeName,
		Items:     items,
	}
}

func failureCode(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return string(typed.Code())
	}
	return string(pkgerrors.CodeInternal)
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
