package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/campuseats-backend/api/responses"
	"github.com/angelmondragon/campuseats-backend/api/validators"
	"github.com/angelmondragon/campuseats-backend/internal/admin"
	"github.com/angelmondragon/campuseats-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
	"github.com/angelmondragon/campuseats-backend/pkg/logger"
)

func adminUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
}

// AdminListStores lists stores, optionally filtered by ?status=.
func AdminListStores(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			adminUnavailable(w, r, logg)
			return
		}
		var status *enums.StoreStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			value := enums.StoreStatus(strings.ToUpper(raw))
			status = &value
		}
		stores, err := svc.ListStores(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stores)
	}
}

type storeAction func(ctx context.Context, storeID int64) (*admin.StoreDTO, error)

func adminStoreAction(svc admin.Service, logg *logger.Logger, pick func(admin.Service) storeAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			adminUnavailable(w, r, logg)
			return
		}
		storeID, err := validators.ParseIDParam(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithStoreID(ctx, storeID)
		}
		store, err := pick(svc)(ctx, storeID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, store)
	}
}

// AdminApproveStore activates a store and notifies the owner.
func AdminApproveStore(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return adminStoreAction(svc, logg, func(s admin.Service) storeAction { return s.ApproveStore })
}

// AdminRejectStore deactivates a store and notifies the owner.
func AdminRejectStore(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return adminStoreAction(svc, logg, func(s admin.Service) storeAction { return s.RejectStore })
}

func AdminReactivateStore(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return adminStoreAction(svc, logg, func(s admin.Service) storeAction { return s.ReactivateStore })
}

func AdminGetStore(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return adminStoreAction(svc, logg, func(s admin.Service) storeAction { return s.GetStore })
}

func AdminStats(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			adminUnavailable(w, r, logg)
			return
		}
		stats, err := svc.DashboardStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
