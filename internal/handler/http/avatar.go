package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vlebedev/go-task-manager/internal/avatar"
	"github.com/vlebedev/go-task-manager/internal/logger"
	"github.com/vlebedev/go-task-manager/internal/service"
	"github.com/vlebedev/go-task-manager/internal/store"
	"github.com/vlebedev/go-task-manager/internal/utils"
)

// uploadAvatar accepts a multipart form with a single "avatar" file field.
// The raw upload is capped before reading; the service layer validates the
// filename, decodes, resizes, and stores the normalized PNG.
func (h *Handler) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	ctx := r.Context()

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		respondError(w, service.ErrUnauthenticated)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, avatar.MaxUploadSize)
	if err := r.ParseMultipartForm(avatar.MaxUploadSize); err != nil {
		log.Err(err).Str("func", "uploadAvatar").Msg("error parsing multipart form")
		respondError(w, avatar.ErrUploadTooLarge)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		log.Err(err).Str("func", "uploadAvatar").Msg("missing avatar form field")
		respondError(w, avatar.ErrUnsupportedFormat)
		return
	}
	defer file.Close() //nolint:errcheck // read-only temp file

	data, err := io.ReadAll(file)
	if err != nil {
		log.Err(err).Str("func", "uploadAvatar").Msg("error reading uploaded file")
		respondError(w, err)
		return
	}

	if err := h.services.UserService.SetAvatar(ctx, user.UserID, header.Filename, data); err != nil {
		log.Err(err).Str("func", "uploadAvatar").Msg("error storing avatar")
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// deleteAvatar removes the authenticated user's stored avatar.
func (h *Handler) deleteAvatar(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	ctx := r.Context()

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		respondError(w, service.ErrUnauthenticated)
		return
	}

	if err := h.services.UserService.RemoveAvatar(ctx, user.UserID); err != nil {
		log.Err(err).Str("func", "deleteAvatar").Msg("error removing avatar")
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// serveAvatar is the only public user endpoint besides signup and login: it
// serves any user's avatar by id, as stored (always PNG after normalization).
func (h *Handler) serveAvatar(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Err(err).Str("func", "serveAvatar").Msg("invalid user id")
		respondError(w, store.ErrUserNotFound)
		return
	}

	data, err := h.services.UserService.GetAvatar(r.Context(), userID)
	if err != nil {
		log.Err(err).Str("func", "serveAvatar").Msg("error fetching avatar")
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Err(err).Str("func", "serveAvatar").Msg("error writing avatar bytes")
	}
}
