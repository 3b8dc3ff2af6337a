package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/restroadmin/config"
	"github.com/ray-remotestate/restroadmin/database"
	"github.com/ray-remotestate/restroadmin/database/dbhelper"
	"github.com/ray-remotestate/restroadmin/handlers"
	"github.com/ray-remotestate/restroadmin/server"
	"github.com/ray-remotestate/restroadmin/services"
)

func main() {
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config, error: %v", err)
	}
	setupLogger(cfg)

	db, err := database.ConnectAndMigrate(context.Background(), cfg)
	if err != nil {
		logrus.Panicf("failed to initialize database, error: %v", err)
	}
	logrus.Info("database is ready")

	store := dbhelper.NewOrderStore(db.DB)
	log := logrus.StandardLogger()
	h := &handlers.Handler{
		Orders:              services.NewOrderService(store, log),
		Stats:               services.NewStatsService(store),
		DB:                  db.DB,
		RejectUnknownFields: cfg.RejectUnknownFields,
	}
	srv := server.SetupRoutes(h, log)

	go func() {
		logrus.Infof("server listening on %s", cfg.Addr())
		if err := srv.Run(cfg.Addr()); err != nil {
			logrus.WithError(err).Error("server stopped unexpectedly")
			done <- syscall.SIGTERM
		}
	}()

	<-done

	logrus.Info("shutting down...")
	if err := srv.Shutdown(cfg.ShutdownTimeout); err != nil {
		logrus.WithError(err).Error("failed to gracefully shutdown server")
	}
	if err := db.Shutdown(); err != nil {
		logrus.WithError(err).Error("failed to close database connection!")
	}

	logrus.Info("system is shut ..zzz")
}

func setupLogger(cfg *config.Config) {
	if strings.EqualFold(cfg.LogFormat, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("unknown log level %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
