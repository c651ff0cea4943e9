package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mhollander/limen/internal/config"
	"github.com/mhollander/limen/internal/httpapi"
	"github.com/mhollander/limen/internal/limen/device"
	"github.com/mhollander/limen/internal/limen/recog"
	"github.com/mhollander/limen/internal/limen/service"
	"github.com/mhollander/limen/internal/limen/store/memory"
	"github.com/mhollander/limen/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := recog.NewRekognition(ctx, &cfg.Recognition, recog.WithLogger(logger))
	if err != nil {
		logger.Fatal("recognition provider init failed", zap.Error(err))
	}

	camera := device.NewHTTPCamera(cfg.Devices.CameraURL, cfg.Devices.Timeout, logger)
	door := device.NewHTTPDoor(cfg.Devices.DoorURL, cfg.Devices.Timeout, logger)

	people := memory.NewPersonStore()
	audit := memory.NewAuditLog()

	accessSvc := service.NewAccessService(
		service.Config{Threshold: cfg.Recognition.Threshold},
		provider, camera, door, people, audit, logger,
	)

	// Collection bootstrap and registry reconcile are fatal: the engine
	// must not serve traffic without a collection.
	if err := accessSvc.Bootstrap(ctx); err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}

	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:        logger,
		Addr:          cfg.HTTP.Addr,
		AccessService: accessSvc,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}
