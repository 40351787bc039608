package http

import (
	"github.com/vlebedev/go-task-manager/internal/logger"
	"github.com/vlebedev/go-task-manager/internal/service"
)

// Handler carries the dependencies of the HTTP transport layer.
type Handler struct {
	services *service.Services

	logger *logger.Logger
}

// NewHandler constructs the HTTP handler over the given services.
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		logger:   logger,
	}
}
