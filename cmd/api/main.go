// Package main is the API entry point. It loads configuration,
// assembles the application and serves until SIGINT/SIGTERM.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"gercekmi.com/backend/internal/app"
	"gercekmi.com/backend/internal/config"
)

func main() {
	setupLogging()

	// .env is optional; in containers the environment is injected.
	_ = godotenv.Load()

	log.Info("=== gercekmi API starting ===")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	if level, err := log.ParseLevel(cfg.AppLogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize application")
	}
	defer application.Close()

	if err := application.Scheduler.Start(); err != nil {
		log.WithError(err).Fatal("failed to start scheduler")
	}
	defer application.Scheduler.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Server.Run(ctx)
	}()

	log.Info("=== gercekmi API ready ===")

	select {
	case sig := <-quit:
		log.Infof("received signal %s, shutting down", sig)
		cancel()
		if err := <-errCh; err != nil {
			log.WithError(err).Error("server shutdown error")
		}
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Fatal("server failed")
		}
	}

	log.Info("=== gercekmi API stopped ===")
}

func setupLogging() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.DebugLevel)
}
