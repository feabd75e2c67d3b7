package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smarttech/storefront/api/responses"
	"github.com/smarttech/storefront/api/validators"
	"github.com/smarttech/storefront/internal/chat"
	"github.com/smarttech/storefront/internal/storefront"
	"github.com/smarttech/storefront/pkg/logger"
)

func SendChat(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var body storefront.ChatMessageCreate
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		res, err := svc.Send(ctx, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, res)
	}
}

func ChatHistory(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := svc.History(r.Context(), chi.URLParam(r, "session_id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}
