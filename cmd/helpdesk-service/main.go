package main

import (
	"fmt"
	"os"

	"helpdesk-service/internal/auth"
	"helpdesk-service/internal/config"
	"helpdesk-service/internal/db"
	httphandler "helpdesk-service/internal/http"
	"helpdesk-service/internal/http/middleware"
	"helpdesk-service/internal/logger"
	"helpdesk-service/internal/repository"
	"helpdesk-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	database, err := db.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect database")
	}

	ticketRepo := repository.NewTicketRepository(database)
	assignmentRepo := repository.NewAssignmentRepository(database)
	userRepo := repository.NewUserRepository(database)
	reportRepo := repository.NewReportRepository(database)

	ticketService := service.NewTicketService(ticketRepo)
	assignmentService := service.NewAssignmentService(assignmentRepo, ticketRepo, userRepo)
	reportService := service.NewReportService(reportRepo, ticketRepo)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(ticketService, assignmentService, reportService, appLogger)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, appLogger, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().Str("addr", addr).Msg("starting helpdesk service")

	if err := router.Run(addr); err != nil {
		appLogger.Error().Err(err).Msg("failed to start server")
		os.Exit(1)
	}
}
