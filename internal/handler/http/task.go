package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vlebedev/go-task-manager/internal/logger"
	"github.com/vlebedev/go-task-manager/internal/service"
	"github.com/vlebedev/go-task-manager/internal/store"
	"github.com/vlebedev/go-task-manager/internal/utils"
	"github.com/vlebedev/go-task-manager/models"
)

// createTask creates a task owned by the authenticated user.
func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	ctx := r.Context()

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		respondError(w, service.ErrUnauthenticated)
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "createTask").Msg("error decoding request body")
		respondError(w, service.ErrValidation)
		return
	}

	task, err := h.services.TaskService.CreateTask(ctx, user.UserID, req.Title, req.Completed)
	if err != nil {
		log.Err(err).Str("func", "createTask").Msg("error creating task")
		respondError(w, err)
		return
	}

	if _, err := utils.WriteJSON(w, task, http.StatusCreated); err != nil {
		log.Err(err).Str("func", "createTask").Msg("error writing response")
	}
}

// listTasks returns the authenticated user's tasks, filtered and paginated
// by the completed, limit, skip, and sortBy query parameters.
func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	ctx := r.Context()

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		respondError(w, service.ErrUnauthenticated)
		return
	}

	filter, err := parseTaskFilter(r)
	if err != nil {
		log.Err(err).Str("func", "listTasks").Msg("invalid query parameters")
		respondError(w, service.ErrValidation)
		return
	}

	tasks, err := h.services.TaskService.ListTasks(ctx, user.UserID, filter)
	if err != nil {
		log.Err(err).Str("func", "listTasks").Msg("error listing tasks")
		respondError(w, err)
		return
	}

	total, err := h.services.TaskService.CountTasks(ctx, user.UserID)
	if err != nil {
		log.Err(err).Str("func", "listTasks").Msg("error counting tasks")
		respondError(w, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))

	if _, err := utils.WriteJSON(w, tasks, http.StatusOK); err != nil {
		log.Err(err).Str("func", "listTasks").Msg("error writing response")
	}
}

// getTask returns a single task. Another user's task is indistinguishable
// from a missing one: both respond 404.
func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	ctx := r.Context()

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		respondError(w, service.ErrUnauthenticated)
		return
	}

	taskID, err := parseTaskID(r)
	if err != nil {
		log.Err(err).Str("func", "getTask").Msg("invalid task id")
		respondError(w, store.ErrTaskNotFound)
		return
	}

	task, err := h.services.TaskService.GetTask(ctx, user.UserID, taskID)
	if err != nil {
		log.Err(err).Str("func", "getTask").Msg("error fetching task")
		respondError(w, err)
		return
	}

	if _, err := utils.WriteJSON(w, task, http.StatusOK); err != nil {
		log.Err(err).Str("func", "getTask").Msg("error writing response")
	}
}

// updateTask applies a partial update, decoded as a map so the service layer
// can reject keys outside the allow-list.
func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	ctx := r.Context()

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		respondError(w, service.ErrUnauthenticated)
		return
	}

	taskID, err := parseTaskID(r)
	if err != nil {
		log.Err(err).Str("func", "updateTask").Msg("invalid task id")
		respondError(w, store.ErrTaskNotFound)
		return
	}

	var updates map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		log.Err(err).Str("func", "updateTask").Msg("error decoding request body")
		respondError(w, service.ErrValidation)
		return
	}

	task, err := h.services.TaskService.UpdateTask(ctx, user.UserID, taskID, updates)
	if err != nil {
		log.Err(err).Str("func", "updateTask").Msg("error updating task")
		respondError(w, err)
		return
	}

	if _, err := utils.WriteJSON(w, task, http.StatusOK); err != nil {
		log.Err(err).Str("func", "updateTask").Msg("error writing response")
	}
}

// deleteTask removes a task and echoes back the deleted record.
func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	ctx := r.Context()

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		respondError(w, service.ErrUnauthenticated)
		return
	}

	taskID, err := parseTaskID(r)
	if err != nil {
		log.Err(err).Str("func", "deleteTask").Msg("invalid task id")
		respondError(w, store.ErrTaskNotFound)
		return
	}

	task, err := h.services.TaskService.DeleteTask(ctx, user.UserID, taskID)
	if err != nil {
		log.Err(err).Str("func", "deleteTask").Msg("error deleting task")
		respondError(w, err)
		return
	}

	if _, err := utils.WriteJSON(w, task, http.StatusOK); err != nil {
		log.Err(err).Str("func", "deleteTask").Msg("error writing response")
	}
}

func parseTaskID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// parseTaskFilter reads the list query parameters:
//
//	completed=true|false  keep only tasks in that state
//	limit=N               page size, 0 means no limit
//	skip=N                offset into the result set
//	sortBy=createdAt:desc newest first (default is oldest first)
func parseTaskFilter(r *http.Request) (models.TaskFilter, error) {
	var filter models.TaskFilter
	query := r.URL.Query()

	if raw := query.Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, err
		}
		filter.Completed = &completed
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, err
		}
		filter.Limit = limit
	}

	if raw := query.Get("skip"); raw != "" {
		skip, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, err
		}
		filter.Skip = skip
	}

	if raw := query.Get("sortBy"); raw != "" {
		filter.SortDesc = strings.EqualFold(raw, "createdAt:desc")
	}

	return filter, nil
}
