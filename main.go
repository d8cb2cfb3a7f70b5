// File: washlane/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"washlane/config"
	"washlane/cron"
	"washlane/database"
	bookingRepoPkg "washlane/database/repository/booking"
	userRepoPkg "washlane/database/repository/user"
	walletRepoPkg "washlane/database/repository/wallet"
	"washlane/handlers"
	"washlane/routes"
	"washlane/services/booking"
	"washlane/services/tasks"
	"washlane/services/user"
	"washlane/services/wallet"
	"washlane/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories. User lookups sit on every authenticated request, so the
	// user repo reads through the redis cache.
	userRepo := userRepoPkg.NewCachedUserRepo(userRepoPkg.NewMongoUserRepo(), utils.GetCacheClient())
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	walletRepo := walletRepoPkg.NewMongoWalletRepo()

	// async receipt queue.
	receiptClient := asynq.NewClient(cron.ReceiptQueueRedisOpt())
	defer receiptClient.Close()

	// services.
	userService := &user.DefaultUserService{
		Repo: userRepo,
	}
	walletService := &wallet.DefaultWalletService{
		Repo:        walletRepo,
		BookingRepo: bookingRepo,
		UserRepo:    userRepo,
		Receipts:    tasks.NewEnqueuer(receiptClient),
	}
	bookingService := &booking.DefaultBookingService{
		Repo:     bookingRepo,
		UserRepo: userRepo,
		Ledger:   walletService,
	}

	userHandler := handlers.NewUserHandler(userService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	walletHandler := handlers.NewWalletHandler(walletService)

	routes.RegisterRoutes(router, userHandler, bookingHandler, walletHandler, userRepo)

	// Background workers and monitors.
	cron.InitReceiptWorker()
	utils.StartHealthMonitor(utils.MonitorTargets{
		Mongo:        database.MongoClient,
		Cache:        utils.GetCacheClient(),
		AuthCache:    utils.GetAuthCacheClient(),
		ReceiptQueue: cron.ReceiptQueueRedisClient(),
	})

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
