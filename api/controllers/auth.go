package controllers

import (
	"net/http"

	"github.com/refaccionariaweb/storefront-backend/api/middleware"
	"github.com/refaccionariaweb/storefront-backend/api/responses"
	"github.com/refaccionariaweb/storefront-backend/api/validators"
	authsvc "github.com/refaccionariaweb/storefront-backend/internal/auth"
	pkgerrors "github.com/refaccionariaweb/storefront-backend/pkg/errors"
	"github.com/refaccionariaweb/storefront-backend/pkg/logger"
)

// AuthLogin handles password login and returns the signed access token.
func AuthLogin(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload authsvc.LoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Login(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, resp)
	}
}

// AuthLogout revokes the caller's server-side session.
func AuthLogout(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
			return
		}

		if err := svc.Logout(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
