package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"asistencia-bot/internal/config"
	"asistencia-bot/internal/gateway"
	"asistencia-bot/internal/handler"
	"asistencia-bot/internal/metrics"
	"asistencia-bot/internal/refresher"
	"asistencia-bot/internal/repository"
	"asistencia-bot/internal/service"
	"asistencia-bot/internal/workspace"
	"asistencia-bot/pkg/telegram"

	"github.com/facebookgo/clock"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetBotConfig()
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.Info("Config initialized...")

	metrics.InitMetrics()

	// Локальное хранилище чатов: компания и сессия
	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatal("Failed to get database instance:", err)
	}

	storageRepo, err := repository.NewGormStorageRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create storage repository")
	}

	registry, err := config.LoadRegistry(cfg.TenantsFile)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load companies")
	}
	logrus.Infof("Companies loaded: %v", registry.IDs())

	client, err := telegram.NewClient(cfg.TelegramToken, cfg.Debug)
	if err != nil {
		logrus.Fatal("Failed to create Telegram client:", err)
	}
	if cfg.BotUsername == "" {
		cfg.BotUsername = client.Username()
	}

	httpClient := &http.Client{}
	newGateway := func(tenant config.Tenant) gateway.Caller {
		gw := gateway.NewClient(tenant, cfg.Network, httpClient)
		gw.SetDebug(cfg.Debug)
		return gw
	}

	clk := clock.New()
	workspaces := workspace.NewManager(storageRepo, registry, workspace.OptionsFromConfig(cfg), clk, newGateway)
	services := service.New(clk)

	botHandler := handler.NewHandler(client.Bot, workspaces, services, cfg)

	pageRefresher := refresher.New(workspaces, refresher.JobsFromConfig(cfg))
	if err := pageRefresher.Start(); err != nil {
		logrus.WithError(err).Fatal("Failed to start page refresher")
	}

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = metrics.NewServer(cfg.MetricsAddr)
		go func() {
			logrus.Infof("Metrics listening on %s", cfg.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logrus.WithError(err).Error("Metrics server stopped")
			}
		}()
	}

	// Обработка сигналов для graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		botHandler.HandleUpdates(ctx, client.Updates())
		close(done)
	}()

	logrus.Info("Bot started. Press Ctrl+C to stop.")
	<-ctx.Done()

	client.Stop()
	<-done
	pageRefresher.Stop()

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("Error stopping metrics server")
		}
		cancel()
	}

	// Закрываем соединение с БД
	if err := sqlDB.Close(); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}

	logrus.Info("Bot stopped gracefully")
}
