package main

import (
	"context"
	"fmt"

	"github.com/vlebedev/go-task-manager/internal/config"
	httphandler "github.com/vlebedev/go-task-manager/internal/handler/http"
	"github.com/vlebedev/go-task-manager/internal/logger"
	"github.com/vlebedev/go-task-manager/internal/mailer"
	"github.com/vlebedev/go-task-manager/internal/server"
	"github.com/vlebedev/go-task-manager/internal/service"
	"github.com/vlebedev/go-task-manager/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("task-manager-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	storages, err := store.NewStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	mail := mailer.NewMailer(cfg.Mailer, log)
	go mail.Run()
	defer mail.Shutdown()

	services := service.NewServices(storages, cfg.App, mail, log)
	handler := httphandler.NewHandler(services, log)

	srv, err := server.NewServer(handler, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
