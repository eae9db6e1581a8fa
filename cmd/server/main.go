package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dactasg/proposal-architect/internal/config"
	"github.com/dactasg/proposal-architect/internal/db"
	httpHandlers "github.com/dactasg/proposal-architect/internal/http/handlers"
	httpRouter "github.com/dactasg/proposal-architect/internal/http/router"
	"github.com/dactasg/proposal-architect/internal/logger"
	"github.com/dactasg/proposal-architect/internal/repository"
	"github.com/dactasg/proposal-architect/internal/service"
	"github.com/dactasg/proposal-architect/internal/webhook"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Конвейер отправки.
	proposalRepo := repository.NewProposalRepository(dbConn)
	dispatcher := webhook.NewClient(cfg.WebhookURL, cfg.WebhookTimeout)
	submissionService := service.NewSubmissionService(proposalRepo, dispatcher, cfg.MaxUploadSizeMB)

	// HTTP хэндлеры.
	submissionHandler := httpHandlers.NewSubmissionHandler(submissionService)
	catalogHandler := httpHandlers.NewCatalogHandler()
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, submissionHandler, catalogHandler, healthHandler)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
