package controllers

import (
	"net/http"

	"github.com/angelmondragon/campuseats-backend/api/responses"
	"github.com/angelmondragon/campuseats-backend/api/validators"
	"github.com/angelmondragon/campuseats-backend/internal/marketplace"
	"github.com/angelmondragon/campuseats-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
	"github.com/angelmondragon/campuseats-backend/pkg/logger"
)

const maxSearchTermLength = 100

func marketplaceUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "marketplace service unavailable"))
}

// MarketplaceStores lists approved stores that are currently open.
func MarketplaceStores(svc marketplace.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			marketplaceUnavailable(w, r, logg)
			return
		}
		stores, err := svc.ListActiveStores(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stores)
	}
}

func MarketplaceStoreDetail(svc marketplace.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			marketplaceUnavailable(w, r, logg)
			return
		}
		storeID, err := validators.ParseIDParam(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.GetStoreDetail(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func MarketplaceStoreProducts(svc marketplace.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			marketplaceUnavailable(w, r, logg)
			return
		}
		storeID, err := validators.ParseIDParam(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		products, err := svc.ListStoreProducts(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// MarketplacePopularProducts ranks orderable products by units sold.
func MarketplacePopularProducts(svc marketplace.Service, cfg config.MarketplaceConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			marketplaceUnavailable(w, r, logg)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", cfg.PopularLimit, 1, cfg.MaxPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		classification, err := parseClassification(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		products, err := svc.ListPopularProducts(r.Context(), limit, classification)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func MarketplaceProductDetail(svc marketplace.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			marketplaceUnavailable(w, r, logg)
			return
		}
		productID, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.GetProductDetail(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// MarketplaceSearch matches product names case-insensitively. A blank q
// answers exactly like MarketplacePopularProducts, default limit included.
func MarketplaceSearch(svc marketplace.Service, cfg config.MarketplaceConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			marketplaceUnavailable(w, r, logg)
			return
		}
		term := validators.SanitizeString(r.URL.Query().Get("q"), maxSearchTermLength)
		defaultLimit := cfg.MaxPageSize
		if term == "" {
			defaultLimit = cfg.PopularLimit
		}
		limit, err := validators.ParseQueryInt(r, "limit", defaultLimit, 1, cfg.MaxPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		classification, err := parseClassification(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		products, err := svc.SearchProducts(r.Context(), term, limit, classification)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}
