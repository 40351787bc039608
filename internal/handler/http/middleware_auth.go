// Package http implements the HTTP transport layer of the application.
// It provides middleware, route handlers, and request/response utilities
// for the REST API. Authentication, logging, and tracing concerns are all
// handled at this layer before requests are forwarded to the service layer.
package http

import (
	"context"
	"net/http"

	"github.com/vlebedev/go-task-manager/internal/logger"
	"github.com/vlebedev/go-task-manager/internal/service"
	"github.com/vlebedev/go-task-manager/internal/utils"
)

// auth is an HTTP middleware that enforces bearer-token authentication.
//
// It extracts the token from the "Authorization: Bearer <token>" header,
// resolves it via [service.AuthService.Authenticate] — signature and expiry
// check plus the token-list revocation lookup — and, on success, stores the
// authenticated user and the raw token in the request context before
// delegating to the next handler.
//
// Every rejection responds with HTTP 401 and the same body, whether the
// header is missing, the signature is bad, the token expired, or the token
// has been revoked. All rejection events are logged via the context-scoped
// logger.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			respondError(w, service.ErrUnauthenticated)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(ErrInvalidAuthorizationHeader).Send()
			respondError(w, service.ErrUnauthenticated)
			return
		}

		ctx := r.Context()
		user, err := h.services.AuthService.Authenticate(ctx, tokenString)
		if err != nil {
			log.Err(err).Msg("authentication failed")
			// a store failure surfaces as 401 too: the caller is not
			// authenticated either way
			respondError(w, service.ErrUnauthenticated)
			return
		}

		// Store the authenticated user and the presented token in the
		// context so that downstream handlers can revoke exactly this
		// session without re-parsing the header.
		ctx = context.WithValue(ctx, utils.UserCtxKey, &user)
		ctx = context.WithValue(ctx, utils.TokenCtxKey, tokenString)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
