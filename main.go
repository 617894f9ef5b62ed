package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"avtorent/bot"
	"avtorent/config"
	"avtorent/cron"
	"avtorent/database"
	bookingRepoPkg "avtorent/database/repository/booking"
	carRepoPkg "avtorent/database/repository/car"
	categoryRepoPkg "avtorent/database/repository/category"
	"avtorent/handlers"
	"avtorent/routes"
	"avtorent/services/catalog"
	"avtorent/services/rental"
	"avtorent/services/tasks"
	"avtorent/services/workflow"
	"avtorent/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitSessionCache()
	utils.InitPhotoStore()
	photoStore := utils.GetPhotoStore()

	// repositories.
	categoryRepo := categoryRepoPkg.NewMongoCategoryRepo()
	carRepo := carRepoPkg.NewMongoCarRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()

	// background queue.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()
	cleanup := tasks.NewEnqueuer(asynqClient)
	cron.InitCleanupWorker(photoStore)

	// services.
	catalogService := catalog.NewDefaultCatalogService(categoryRepo, carRepo, utils.GetCacheClient(), logger)
	rentalService := rental.NewDefaultRentalService(carRepo, bookingRepo, logger)

	sessionTTL := time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute
	sessionStore := workflow.NewRedisStore(utils.GetSessionCacheClient(), sessionTTL)
	flow := workflow.NewWorkflow(categoryRepo, carRepo, photoStore, sessionStore, cleanup, logger)

	// Telegram admin bot.
	botCtx, stopBot := context.WithCancel(context.Background())
	defer stopBot()
	if config.AppConfig.TelegramBotToken != "" {
		adminBot, err := bot.New(config.AppConfig.TelegramBotToken, config.AdminIDs(), flow, carRepo, categoryRepo, photoStore, logger)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize telegram bot: %v", err)
		}
		go adminBot.Run(botCtx)
	} else {
		logger.Warn("TELEGRAM_BOT_TOKEN not set, admin bot disabled")
	}

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	handlerBundle := &routes.HandlerBundle{
		Catalog: &handlers.CatalogHandler{CatalogSvc: catalogService, Logger: logger},
		Booking: &handlers.BookingHandler{RentalSvc: rentalService, Logger: logger},
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	stopBot()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
