package controllers

import (
	"net/http"

	"github.com/angelmondragon/campuseats-backend/api/middleware"
	"github.com/angelmondragon/campuseats-backend/api/responses"
	"github.com/angelmondragon/campuseats-backend/api/validators"
	"github.com/angelmondragon/campuseats-backend/internal/checkout"
	"github.com/angelmondragon/campuseats-backend/internal/orders"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
	"github.com/angelmondragon/campuseats-backend/pkg/logger"
)

const maxNotesLength = 500

type cartItemRequest struct {
	ProductID int64   `json:"productId" validate:"required,gt=0"`
	Quantity  int     `json:"quantity" validate:"required,gte=1"`
	OptionIDs []int64 `json:"optionIds" validate:"omitempty,dive,gt=0"`
}

type createOrderRequest struct {
	StoreID       int64             `json:"storeId" validate:"required,gt=0"`
	Items         []cartItemRequest `json:"items" validate:"dive"`
	DeliveryType  string            `json:"deliveryType" validate:"required"`
	PaymentType   string            `json:"paymentType" validate:"required"`
	GeneralNotes  *string           `json:"generalNotes"`
	DeliveryNotes *string           `json:"deliveryNotes"`
}

func (req createOrderRequest) toCart() checkout.Cart {
	items := make([]checkout.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, checkout.CartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			OptionIDs: item.OptionIDs,
		})
	}
	return checkout.Cart{
		StoreID:       req.StoreID,
		Items:         items,
		DeliveryType:  enums.DeliveryType(req.DeliveryType),
		PaymentType:   enums.PaymentType(req.PaymentType),
		GeneralNotes:  sanitizeOptional(req.GeneralNotes, maxNotesLength),
		DeliveryNotes: sanitizeOptional(req.DeliveryNotes, maxNotesLength),
	}
}

func sanitizeOptional(value *string, maxLen int) *string {
	if value == nil {
		return nil
	}
	clean := validators.SanitizeString(*value, maxLen)
	if clean == "" {
		return nil
	}
	return &clean
}

// BuyerCreateOrder prices the submitted cart server-side and persists it as
// a PENDING order for the authenticated buyer.
func BuyerCreateOrder(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		buyerID := middleware.UserIDFromContext(r.Context())
		if buyerID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateOrder(r.Context(), buyerID, req.toCart())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// BuyerListOrders pages through the buyer's order history, newest first.
func BuyerListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		buyerID := middleware.UserIDFromContext(r.Context())
		if buyerID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}
		params, err := parsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListBuyerOrders(r.Context(), buyerID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
