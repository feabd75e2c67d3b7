package controllers

import (
	"net/http"

	"github.com/smarttech/storefront/api/middleware"
	"github.com/smarttech/storefront/api/responses"
	"github.com/smarttech/storefront/api/validators"
	"github.com/smarttech/storefront/internal/auth"
	"github.com/smarttech/storefront/internal/storefront"
	pkgerrors "github.com/smarttech/storefront/pkg/errors"
	"github.com/smarttech/storefront/pkg/logger"
)

func AdminLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var body storefront.AdminLogin
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		token, err := svc.Login(ctx, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, token)
	}
}

func AdminMe(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		username := middleware.AdminUsernameFromContext(ctx)
		if username == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Not authenticated"))
			return
		}
		admin, err := svc.Profile(ctx, username)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, admin)
	}
}
