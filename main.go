// File: slotify/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotify/config"
	"slotify/database"
	bookingRepoPkg "slotify/database/repository/booking"
	contactRepoPkg "slotify/database/repository/contact"
	userRepoPkg "slotify/database/repository/user"
	"slotify/handlers"
	"slotify/middleware"
	"slotify/routes"
	"slotify/services/booking"
	"slotify/services/calendar"
	ai "slotify/services/intelligence"
	"slotify/services/scheduling"
	"slotify/services/user"
	"slotify/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()
	utils.InitContextCache()
	utils.StartHealthMonitor(
		[]*redis.Client{utils.AuthCacheClient, utils.ContextCacheClient},
		database.MongoClient,
	)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	contactRepo := contactRepoPkg.NewMongoContactRepo()

	// services.
	userService := &user.DefaultUserService{
		Repo: userRepo,
	}

	connManager := calendar.NewConnectionManager(userRepo, logger)
	syncEngine := calendar.NewSyncEngine(contactRepo, connManager, logger)

	bookingService := &booking.DefaultBookingService{
		Repo:     bookingRepo,
		Contacts: contactRepo,
		Users:    userRepo,
		Sync:     syncEngine,
	}

	var completion ai.CompletionClient
	if config.AppConfig.GeminiAPIKey != "" {
		completion = ai.NewGeminiClient(config.AppConfig.GeminiAPIKey)
	} else {
		logger.Warn("main: no Gemini API key configured, assistant runs in deterministic mode")
	}

	ctxStore := ai.NewRedisContextStore(utils.GetContextCacheClient(), 30*time.Minute)
	extractor := ai.NewIntentExtractor(completion, logger)
	recommender := scheduling.NewRecommender(completion, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo: userRepo,

		User:    &handlers.UserHandler{UserService: userService},
		Booking: &handlers.BookingHandler{BookingService: bookingService},
		Calendar: &handlers.CalendarHandler{
			Conn:     connManager,
			Sync:     syncEngine,
			UserRepo: userRepo,
		},
		Contacts: &handlers.ContactHandler{Contacts: contactRepo},
		Assistant: &handlers.AssistantHandler{
			Extractor:      extractor,
			Recommender:    recommender,
			BookingService: bookingService,
			Context:        ctxStore,
		},
	}

	// Register routes with the assembled handler bundle.
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
