package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/campuseats-backend/api/responses"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
	"github.com/angelmondragon/campuseats-backend/pkg/logger"
)

// StoreResolver maps a vendor to the single store they own.
type StoreResolver interface {
	StoreIDForOwner(ctx context.Context, ownerID int64) (int64, error)
}

// StoreContext resolves the authenticated vendor's store and injects its id.
// Vendors without a store get the resolver's NotFound error.
func StoreContext(resolver StoreResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := UserIDFromContext(r.Context())
			if userID == 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			if resolver == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing"))
				return
			}

			storeID, err := resolver.StoreIDForOwner(r.Context(), userID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithStoreID(r.Context(), storeID)
			if logg != nil {
				ctx = logg.WithStoreID(ctx, storeID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
