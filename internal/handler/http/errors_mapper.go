package http

import (
	"errors"
	"net/http"

	"github.com/vlebedev/go-task-manager/internal/avatar"
	"github.com/vlebedev/go-task-manager/internal/service"
	"github.com/vlebedev/go-task-manager/internal/store"
	"github.com/vlebedev/go-task-manager/internal/utils"
	"github.com/vlebedev/go-task-manager/models"
)

var errorStatusMap = map[error]int{
	service.ErrValidation:         http.StatusBadRequest,
	service.ErrInvalidCredentials: http.StatusBadRequest,
	service.ErrInvalidOperation:   http.StatusBadRequest,
	service.ErrUnauthenticated:    http.StatusUnauthorized,

	store.ErrEmailAlreadyExists: http.StatusBadRequest,
	store.ErrUserNotFound:       http.StatusNotFound,
	store.ErrTaskNotFound:       http.StatusNotFound,
	store.ErrAvatarNotFound:     http.StatusNotFound,
	store.ErrNothingToUpdate:    http.StatusBadRequest,

	avatar.ErrUploadTooLarge:    http.StatusBadRequest,
	avatar.ErrUnsupportedFormat: http.StatusBadRequest,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// respondError maps err to its HTTP status and writes the minimal JSON error
// body. Internal detail never leaves the process: 5xx responses carry only
// the generic status text, and authentication failures always say the same
// thing regardless of cause.
func respondError(w http.ResponseWriter, err error) {
	status := statusFromError(err)

	message := http.StatusText(status)
	switch {
	case status >= http.StatusInternalServerError:
		// keep the generic text
	case errors.Is(err, service.ErrUnauthenticated):
		message = service.ErrUnauthenticated.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		message = service.ErrInvalidCredentials.Error()
	default:
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			message = validationErr.Error()
		} else if errors.Is(err, service.ErrInvalidOperation) {
			message = "invalid updates"
		} else if errors.Is(err, store.ErrEmailAlreadyExists) {
			message = store.ErrEmailAlreadyExists.Error()
		} else if errors.Is(err, avatar.ErrUploadTooLarge) {
			message = avatar.ErrUploadTooLarge.Error()
		} else if errors.Is(err, avatar.ErrUnsupportedFormat) {
			message = avatar.ErrUnsupportedFormat.Error()
		}
	}

	utils.WriteJSON(w, models.ErrorResponse{Error: message}, status) //nolint:errcheck // nothing left to do on a failed error write
}
