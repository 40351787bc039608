package http

import (
	"encoding/json"
	"net/http"

	"github.com/vlebedev/go-task-manager/internal/logger"
	"github.com/vlebedev/go-task-manager/internal/service"
	"github.com/vlebedev/go-task-manager/internal/utils"
	"github.com/vlebedev/go-task-manager/models"
)

// signup creates a new account and logs it in, responding 201 with the
// public user projection and the first bearer token.
func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "signup").Msg("error decoding request body")
		respondError(w, service.ErrValidation)
		return
	}

	user, token, err := h.services.AuthService.Signup(r.Context(), service.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		log.Err(err).Str("func", "signup").Msg("error signing up user")
		respondError(w, err)
		return
	}

	if _, err := utils.WriteJSON(w, models.AuthResponse{User: user, Token: token.SignedString}, http.StatusCreated); err != nil {
		log.Err(err).Str("func", "signup").Msg("error writing response")
	}
}

// login verifies credentials and issues a fresh token.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "login").Msg("error decoding request body")
		respondError(w, service.ErrInvalidCredentials)
		return
	}

	user, token, err := h.services.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Err(err).Str("func", "login").Msg("error logging in user")
		respondError(w, err)
		return
	}

	if _, err := utils.WriteJSON(w, models.AuthResponse{User: user, Token: token.SignedString}, http.StatusOK); err != nil {
		log.Err(err).Str("func", "login").Msg("error writing response")
	}
}

// logout revokes only the token the request authenticated with.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	ctx := r.Context()

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		respondError(w, service.ErrUnauthenticated)
		return
	}
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok {
		respondError(w, service.ErrUnauthenticated)
		return
	}

	if err := h.services.AuthService.Logout(ctx, user.UserID, token); err != nil {
		log.Err(err).Str("func", "logout").Msg("error logging out user")
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// logoutAll clears the user's entire token list, ending every session.
func (h *Handler) logoutAll(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	ctx := r.Context()

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		respondError(w, service.ErrUnauthenticated)
		return
	}

	if err := h.services.AuthService.LogoutAll(ctx, user.UserID); err != nil {
		log.Err(err).Str("func", "logoutAll").Msg("error logging out all sessions")
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// sessions reports how many tokens the user currently holds without
// revealing the tokens themselves.
func (h *Handler) sessions(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	ctx := r.Context()

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		respondError(w, service.ErrUnauthenticated)
		return
	}

	count, err := h.services.AuthService.ActiveSessions(ctx, user.UserID)
	if err != nil {
		log.Err(err).Str("func", "sessions").Msg("error counting sessions")
		respondError(w, err)
		return
	}

	if _, err := utils.WriteJSON(w, models.SessionsResponse{Sessions: count}, http.StatusOK); err != nil {
		log.Err(err).Str("func", "sessions").Msg("error writing response")
	}
}

// me returns the authenticated user's own profile.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, service.ErrUnauthenticated)
		return
	}

	if _, err := utils.WriteJSON(w, user, http.StatusOK); err != nil {
		log.Err(err).Str("func", "me").Msg("error writing response")
	}
}

// updateMe applies a partial profile update. The body is decoded as a map so
// the service layer can reject keys outside the allow-list.
func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	ctx := r.Context()

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		respondError(w, service.ErrUnauthenticated)
		return
	}

	var updates map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		log.Err(err).Str("func", "updateMe").Msg("error decoding request body")
		respondError(w, service.ErrValidation)
		return
	}

	updated, err := h.services.UserService.UpdateProfile(ctx, user.UserID, updates)
	if err != nil {
		log.Err(err).Str("func", "updateMe").Msg("error updating profile")
		respondError(w, err)
		return
	}

	if _, err := utils.WriteJSON(w, updated, http.StatusOK); err != nil {
		log.Err(err).Str("func", "updateMe").Msg("error writing response")
	}
}

// deleteMe removes the account and everything it owns, echoing back the
// deleted profile.
func (h *Handler) deleteMe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	ctx := r.Context()

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		respondError(w, service.ErrUnauthenticated)
		return
	}

	if err := h.services.UserService.DeleteAccount(ctx, *user); err != nil {
		log.Err(err).Str("func", "deleteMe").Msg("error deleting account")
		respondError(w, err)
		return
	}

	if _, err := utils.WriteJSON(w, user, http.StatusOK); err != nil {
		log.Err(err).Str("func", "deleteMe").Msg("error writing response")
	}
}
