package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chakri0176/genAI-chatbot-with-sqldb/ai"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/config"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/db"
	_ "github.com/chakri0176/genAI-chatbot-with-sqldb/docs" // Swagger docs
	"github.com/chakri0176/genAI-chatbot-with-sqldb/handlers"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/resolver"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	cfg := config.GetConfig()

	// Initialize session store
	database, err := db.New(cfg.SessionTTL, config.Greeting)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	defer database.Close()

	// Initialize connection resolver
	res := resolver.New(resolver.Options{
		LocalPath: cfg.LocalDB,
		HandleTTL: cfg.HandleTTL,
	})
	defer res.Close()
	if _, err := os.Stat(cfg.LocalDB); err != nil {
		log.Printf("Warning: local database %s is not available: %v", cfg.LocalDB, err)
		log.Printf("Run seed-student-db -path %s to create it; the local kind will be rejected until then", cfg.LocalDB)
	}

	// Initialize query agent
	agent := ai.New(ai.OpenAIModelFactory(cfg.LLM), ai.Options{
		MaxSteps:           cfg.Agent.MaxSteps,
		RowLimit:           cfg.Agent.RowLimit,
		MinRequestInterval: cfg.Agent.MinRequestInterval,
		MaxRetries:         3,
		BaseDelay:          2 * time.Second,
	})
	if cfg.LLM.APIKey == "" {
		log.Println("LLM_API_KEY is not set; sessions must supply their own API key")
	}

	hub := handlers.NewProgressHub()
	defer hub.Close()

	// Initialize handlers
	h := handlers.New(database, res, agent, hub, cfg)

	// Setup Gin router
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.MaxAge = 24 * time.Hour
	r.Use(cors.New(corsConfig))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Routes
	h.Register(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
