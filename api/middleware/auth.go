package middleware

import (
	"net/http"
	"strings"

	"github.com/smarttech/storefront/api/responses"
	pkgAuth "github.com/smarttech/storefront/pkg/auth"
	"github.com/smarttech/storefront/pkg/config"
	pkgerrors "github.com/smarttech/storefront/pkg/errors"
	"github.com/smarttech/storefront/pkg/logger"
)

// AdminAuth validates a bearer token and seeds the request context with the admin.
func AdminAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			} else {
				token = ""
			}
			if token == "" {
				w.Header().Set("WWW-Authenticate", "Bearer")
				responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Not authenticated"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "reason", err.Error()), "admin.token.rejected")
				}
				w.Header().Set("WWW-Authenticate", "Bearer")
				responses.WriteError(r.Context(), nil, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Could not validate credentials"))
				return
			}

			ctx := WithAdmin(r.Context(), claims.AdminID, claims.Subject)
			if logg != nil {
				ctx = logg.WithAdmin(ctx, claims.Subject)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
