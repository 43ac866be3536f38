package orders

import (
	"context"
	"fmt"

	"github.com/angelmondragon/campuseats-backend/pkg/db"
	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
	"github.com/angelmondragon/campuseats-backend/pkg/logger"
	"github.com/angelmondragon/campuseats-backend/pkg/metrics"
	"github.com/angelmondragon/campuseats-backend/pkg/pagination"
	"github.com/angelmondragon/campuseats-backend/pkg/types"
)

// Irregular transition kinds. They are logged and counted but never rejected.
const (
	KindSkip         = "skip"
	KindReverse      = "reverse"
	KindTerminalExit = "terminal_exit"
)

type productLookup interface {
	FindByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error)
}

type optionLookup interface {
	FindOptionsByIDs(ctx context.Context, ids []int64) (map[int64]models.Option, error)
}

type storeLookup interface {
	FindByIDs(ctx context.Context, ids []int64) (map[int64]models.Store, error)
}

type userLookup interface {
	FindByIDs(ctx context.Context, ids []int64) (map[int64]models.User, error)
}

// Lookups resolves names for order views.
type Lookups struct {
	Products productLookup
	Options  optionLookup
	Stores   storeLookup
	Users    userLookup
}

// Service drives order status and the buyer/vendor order views.
type Service interface {
	// Transition overwrites the status regardless of the current one.
	Transition(ctx context.Context, orderID int64, status enums.OrderStatus) (*models.Order, error)
	Accept(ctx context.Context, storeID, orderID int64) (*VendorOrderDTO, error)
	MarkReady(ctx context.Context, storeID, orderID int64) (*VendorOrderDTO, error)
	Cancel(ctx context.Context, storeID, orderID int64) (*VendorOrderDTO, error)
	ListBuyerOrders(ctx context.Context, buyerID int64, params pagination.Params) (*types.Page[BuyerOrderDTO], error)
	ListStoreOrders(ctx context.Context, storeID int64, params pagination.Params) (*types.Page[VendorOrderDTO], error)
}

type service struct {
	repo    *Repository
	lookups Lookups
	metrics *metrics.OrderMetrics
	logg    *logger.Logger
}

// NewService builds the order service. m may be nil.
func NewService(repo *Repository, lookups Lookups, m *metrics.OrderMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if lookups.Products == nil || lookups.Options == nil || lookups.Stores == nil || lookups.Users == nil {
		return nil, fmt.Errorf("order lookups required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, lookups: lookups, metrics: m, logg: logg}, nil
}

func (s *service) Transition(ctx context.Context, orderID int64, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "Estado de pedido inválido: %s", status)
	}
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, order, status)
}

func (s *service) Accept(ctx context.Context, storeID, orderID int64) (*VendorOrderDTO, error) {
	return s.vendorAction(ctx, storeID, orderID, enums.OrderStatusInPreparation)
}

func (s *service) MarkReady(ctx context.Context, storeID, orderID int64) (*VendorOrderDTO, error) {
	return s.vendorAction(ctx, storeID, orderID, enums.OrderStatusReadyForPickup)
}

func (s *service) Cancel(ctx context.Context, storeID, orderID int64) (*VendorOrderDTO, error) {
	return s.vendorAction(ctx, storeID, orderID, enums.OrderStatusCanceled)
}

// vendorAction hides other stores' orders behind NotFound.
func (s *service) vendorAction(ctx context.Context, storeID, orderID int64, status enums.OrderStatus) (*VendorOrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.StoreID != storeID {
		return nil, notFound(orderID)
	}
	updated, err := s.apply(ctx, order, status)
	if err != nil {
		return nil, err
	}
	views, err := s.vendorViews(ctx, []models.Order{*updated})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *service) apply(ctx context.Context, order *models.Order, status enums.OrderStatus) (*models.Order, error) {
	from := order.Status
	ctx = s.logg.WithOrderID(ctx, order.ID)

	if kind := classifyTransition(from, status); kind != "" {
		warnCtx := s.logg.WithFields(ctx, map[string]any{
			"from_status":     from,
			"to_status":       status,
			"transition_kind": kind,
		})
		s.logg.Warn(warnCtx, "order.transition.irregular")
		s.metrics.IncIrregularTransition(kind)
	}

	ok, err := s.repo.UpdateStatus(ctx, order.ID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if !ok {
		return nil, notFound(order.ID)
	}
	s.metrics.IncTransition(string(from), string(status))

	order.Status = status
	return order, nil
}

// classifyTransition names transitions that leave the natural
// PENDING → EN_PREPARACION → LISTO_PARA_RECOGER path. Cancelling from a
// non-terminal state is regular.
func classifyTransition(from, to enums.OrderStatus) string {
	switch {
	case from == to:
		return ""
	case from.IsTerminal():
		return KindTerminalExit
	case to == enums.OrderStatusCanceled:
		return ""
	case to.Step() < from.Step():
		return KindReverse
	case to.Step() > from.Step()+1:
		return KindSkip
	default:
		return ""
	}
}

func (s *service) ListBuyerOrders(ctx context.Context, buyerID int64, params pagination.Params) (*types.Page[BuyerOrderDTO], error) {
	cursor, err := parseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	rows, next, err := s.repo.ListByBuyer(ctx, buyerID, params, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer orders")
	}

	lines, err := s.lineItems(ctx, rows)
	if err != nil {
		return nil, err
	}
	stores, err := s.lookups.Stores.FindByIDs(ctx, collect(rows, func(o models.Order) int64 { return o.StoreID }))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order stores")
	}

	items := make([]BuyerOrderDTO, 0, len(rows))
	for _, order := range rows {
		summaries := make([]string, 0, len(lines[order.ID]))
		for _, line := range lines[order.ID] {
			summaries = append(summaries, line.Summary())
		}
		items = append(items, BuyerOrderDTO{
			ID:           order.ID,
			CreatedAt:    order.CreatedAt,
			Status:       order.Status,
			Total:        types.NewMoney(order.Total),
			StoreID:      order.StoreID,
			StoreName:    stores[order.StoreID].Name,
			DeliveryType: order.DeliveryType,
			PaymentType:  order.PaymentType,
			Items:        summaries,
		})
	}
	return &types.Page[BuyerOrderDTO]{Items: items, NextCursor: next}, nil
}

func (s *service) ListStoreOrders(ctx context.Context, storeID int64, params pagination.Params) (*types.Page[VendorOrderDTO], error) {
	cursor, err := parseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	rows, next, err := s.repo.ListByStore(ctx, storeID, params, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store orders")
	}
	items, err := s.vendorViews(ctx, rows)
	if err != nil {
		return nil, err
	}
	return &types.Page[VendorOrderDTO]{Items: items, NextCursor: next}, nil
}

func (s *service) vendorViews(ctx context.Context, rows []models.Order) ([]VendorOrderDTO, error) {
	lines, err := s.lineItems(ctx, rows)
	if err != nil {
		return nil, err
	}
	buyers, err := s.lookups.Users.FindByIDs(ctx, collect(rows, func(o models.Order) int64 { return o.BuyerID }))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order buyers")
	}

	out := make([]VendorOrderDTO, 0, len(rows))
	for _, order := range rows {
		items := lines[order.ID]
		if items == nil {
			items = []LineItemDTO{}
		}
		out = append(out, VendorOrderDTO{
			ID:            order.ID,
			CreatedAt:     order.CreatedAt,
			Status:        order.Status,
			Total:         types.NewMoney(order.Total),
			BuyerID:       order.BuyerID,
			BuyerName:     buyers[order.BuyerID].FullName(),
			DeliveryType:  order.DeliveryType,
			PaymentType:   order.PaymentType,
			GeneralNotes:  order.GeneralNotes,
			DeliveryNotes: order.DeliveryNotes,
			Items:         items,
		})
	}
	return out, nil
}

// lineItems batch-loads items, their options and the names they print.
func (s *service) lineItems(ctx context.Context, rows []models.Order) (map[int64][]LineItemDTO, error) {
	orderIDs := collect(rows, func(o models.Order) int64 { return o.ID })
	byOrder, err := s.repo.LineItemsByOrders(ctx, orderIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load line items")
	}

	var all []models.OrderLineItem
	for _, id := range orderIDs {
		all = append(all, byOrder[id]...)
	}
	selected, err := s.repo.OptionsByLineItems(ctx, collect(all, func(li models.OrderLineItem) int64 { return li.ID }))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load line item options")
	}

	var optionIDs []int64
	for _, opts := range selected {
		optionIDs = append(optionIDs, collect(opts, func(o models.OrderLineItemOption) int64 { return o.OptionID })...)
	}
	productsByID, err := s.lookups.Products.FindByIDs(ctx, collect(all, func(li models.OrderLineItem) int64 { return li.ProductID }))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load line item products")
	}
	optionsByID, err := s.lookups.Options.FindOptionsByIDs(ctx, dedupe(optionIDs))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load line item option names")
	}

	out := make(map[int64][]LineItemDTO, len(byOrder))
	for orderID, items := range byOrder {
		for _, li := range items {
			names := make([]string, 0, len(selected[li.ID]))
			for _, sel := range selected[li.ID] {
				names = append(names, optionsByID[sel.OptionID].Name)
			}
			out[orderID] = append(out[orderID], LineItemDTO{
				ProductID:           li.ProductID,
				ProductName:         productName(productsByID, li.ProductID),
				Quantity:            li.Quantity,
				UnitPrice:           types.NewMoney(li.UnitPrice),
				Subtotal:            types.NewMoney(li.Subtotal()),
				SelectedOptionNames: names,
			})
		}
	}
	return out, nil
}

func (s *service) load(ctx context.Context, orderID int64) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, notFound(orderID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func notFound(orderID int64) error {
	return pkgerrors.Newf(pkgerrors.CodeNotFound, "Pedido no encontrado: %d", orderID)
}

func parseCursor(raw string) (*pagination.Cursor, error) {
	cursor, err := pagination.ParseCursor(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Cursor inválido.")
	}
	return cursor, nil
}

func productName(byID map[int64]models.Product, id int64) string {
	if p, ok := byID[id]; ok {
		return p.Name
	}
	return fmt.Sprintf("Producto #%d", id)
}

func collect[T any](rows []T, key func(T) int64) []int64 {
	out := make([]int64, 0, len(rows))
	for _, row := range rows {
		out = append(out, key(row))
	}
	return dedupe(out)
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
