package service

import (
	"github.com/vlebedev/go-task-manager/internal/config"
	"github.com/vlebedev/go-task-manager/internal/logger"
	"github.com/vlebedev/go-task-manager/internal/mailer"
	"github.com/vlebedev/go-task-manager/internal/store"
)

// Services bundles all business-logic services consumed by the transport
// layer.
type Services struct {
	AuthService AuthService
	UserService UserService
	TaskService TaskService
}

// NewServices wires the services to the repositories, the mailer, and the
// application configuration.
func NewServices(storages *store.Storages, cfg config.App, mail mailer.Mailer, logger *logger.Logger) *Services {
	return &Services{
		AuthService: NewAuthService(storages.UserRepository, cfg, mail, logger),
		UserService: NewUserService(storages.UserRepository, cfg, mail, logger),
		TaskService: NewTaskService(storages.TaskRepository, logger),
	}
}
