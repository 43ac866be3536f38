package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/campuseats-backend/api/responses"
	pkgAuth "github.com/angelmondragon/campuseats-backend/pkg/auth"
	"github.com/angelmondragon/campuseats-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
	"github.com/angelmondragon/campuseats-backend/pkg/logger"
)

// UserSyncer mirrors the token principal into the local users table.
type UserSyncer interface {
	Sync(ctx context.Context, principal pkgAuth.Principal) (*models.User, error)
}

// SyncUser resolves the authenticated principal into a local user row so
// order views can print names and admin mail can reach the owner. It must run
// after Auth.
func SyncUser(syncer UserSyncer, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			if syncer != nil {
				if _, err := syncer.Sync(r.Context(), principal); err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
