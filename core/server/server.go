package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ndrop-api/core/cache"
	"ndrop-api/core/config"
	"ndrop-api/core/database"
	"ndrop-api/core/logger"
	"ndrop-api/core/middleware"
	"ndrop-api/core/storage"
	"ndrop-api/core/worker"
	"ndrop-api/modules/admin"
	"ndrop-api/modules/auth"
	"ndrop-api/modules/card"
	"ndrop-api/modules/event"
	eventrepository "ndrop-api/modules/event/repository"
	"ndrop-api/modules/meeting"
	"ndrop-api/modules/notification"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// Run wires the modules together and serves until interrupted.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if _, err := database.InitDB(cfg.Database); err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	db := database.GetDB()

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}
	defer redisCache.Close()

	// Image upload is optional: without S3 config the card module serves
	// everything except uploads.
	var uploader storage.Uploader
	if s3Uploader, err := storage.NewS3Uploader(cfg.S3); err != nil {
		logger.Warn("S3 storage not configured, card image upload disabled", "error", err)
	} else {
		uploader = s3Uploader
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	mw := middleware.NewMiddleware(redisCache)
	v1 := e.Group("/api/v1")

	eventSvc := event.Init(v1, db, mw)
	eventRepo := eventrepository.NewEventRepository(db)
	notifSvc := notification.Init(v1, db, redisCache, eventRepo, mw)
	cardSvc := card.Init(v1, db, uploader, mw)
	meetingSvc := meeting.Init(v1, db, notifSvc, mw)
	auth.Init(v1, db, redisCache, mw)
	admin.Init(v1, db, redisCache, eventSvc, notifSvc, meetingSvc, mw)

	// Deleting an event cascades through these modules before the event row.
	eventSvc.RegisterDependent(meetingSvc)
	eventSvc.RegisterDependent(notifSvc)
	eventSvc.RegisterDependent(cardSvc)

	maintenance := worker.New(cfg.Redis, eventSvc, cardSvc)
	go func() {
		if err := maintenance.Run(); err != nil {
			logger.Error("maintenance worker stopped", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", err)
		}
	}()
	logger.Info("Server started", "addr", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	maintenance.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}
