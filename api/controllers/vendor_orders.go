package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/campuseats-backend/api/responses"
	"github.com/angelmondragon/campuseats-backend/api/validators"
	"github.com/angelmondragon/campuseats-backend/internal/orders"
	"github.com/angelmondragon/campuseats-backend/pkg/logger"
)

// VendorListOrders pages through orders placed at the vendor's store.
func VendorListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := vendorScope(w, r, svc != nil, logg)
		if !ok {
			return
		}
		params, err := parsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListStoreOrders(r.Context(), storeID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

type orderAction func(ctx context.Context, storeID, orderID int64) (*orders.VendorOrderDTO, error)

func vendorOrderAction(svc orders.Service, logg *logger.Logger, pick func(orders.Service) orderAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := vendorScope(w, r, svc != nil, logg)
		if !ok {
			return
		}
		orderID, err := validators.ParseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, orderID)
		}
		order, err := pick(svc)(ctx, storeID, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// VendorAcceptOrder moves the order to EN_PREPARACION.
func VendorAcceptOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return vendorOrderAction(svc, logg, func(s orders.Service) orderAction { return s.Accept })
}

// VendorMarkOrderReady moves the order to LISTO_PARA_RECOGER.
func VendorMarkOrderReady(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return vendorOrderAction(svc, logg, func(s orders.Service) orderAction { return s.MarkReady })
}

// VendorCancelOrder moves the order to CANCELADO.
func VendorCancelOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return vendorOrderAction(svc, logg, func(s orders.Service) orderAction { return s.Cancel })
}
