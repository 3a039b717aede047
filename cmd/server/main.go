package main

import (
	"formdocs/internal/cache"
	"formdocs/internal/config"
	"formdocs/internal/repository"
	"formdocs/internal/service"
	"formdocs/internal/transport/rest"
	"formdocs/internal/transport/ws"

	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	redisAddr := strings.TrimPrefix(cfg.RedisAddr, "redis://")
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	formRepo := repository.NewFormRepo(db)
	templateRepo := repository.NewTemplateRepo(db)
	responseRepo := repository.NewResponseRepo(db)

	// Initialize caches
	formCache := cache.NewFormCache(rdb)
	templateCache := cache.NewTemplateCache(rdb)
	sessionCache := cache.NewSessionCache(rdb, cfg.SessionTTL)

	// Initialize services
	authSvc := service.NewAuthService()
	formSvc := service.NewFormService(formRepo, formCache)
	templateSvc := service.NewTemplateService(templateRepo, templateCache)
	responseSvc := service.NewResponseService(responseRepo, formRepo)
	documentSvc := service.NewDocumentService(templateSvc, formSvc, responseRepo, sessionCache)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	formSvc.SetBroadcaster(wsHub)
	templateSvc.SetBroadcaster(wsHub)
	responseSvc.SetBroadcaster(wsHub)
	documentSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:     authSvc,
		FormService:     formSvc,
		TemplateService: templateSvc,
		ResponseService: responseSvc,
		DocumentService: documentSvc,
		WSHub:           wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST/GET /v1/forms")
		log.Println("  POST/GET /v1/templates")
		log.Println("  POST /v1/forms/{formId}/responses")
		log.Println("  POST /v1/documents/sessions")
		log.Println("  GET  /v1/documents/sessions/{sessionId}/export")
		log.Println("  WS   /v1/ws/subscribe?topic=...")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
