package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/arcscan/arcscan-api/internal/config"
	"github.com/arcscan/arcscan-api/internal/generation"
	"github.com/arcscan/arcscan-api/internal/logger"
	"github.com/arcscan/arcscan-api/internal/research"
	"github.com/arcscan/arcscan-api/internal/search"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	log := logger.New(logger.FromConfig(cfg.LogLevel, cfg.LogFormat)).WithComponent("server")

	gin.SetMode(cfg.GinMode)

	// Services
	generationService := generation.NewService(log, cfg.GenerationBaseURL, cfg.GenerationModel)
	searchService := search.NewService(log, cfg.SearchBaseURL)
	store := research.NewMemorySessionStore()

	researchService := research.NewService(log, store, generationService, searchService, research.ServiceConfig{
		GatewayTimeout:    cfg.GatewayTimeout(),
		SearchResultCount: cfg.SearchResultCount,
		GenerationAPIKey:  cfg.GenerationAPIKey,
		SearchAPIKey:      cfg.SearchAPIKey,
	})
	researchHandler := research.NewHandler(researchService)

	router := gin.Default()
	router.Use(corsMiddleware(cfg.CORSAllowedOrigins))
	router.Use(requestIDMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	researchHandler.RegisterRoutes(api)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info("server listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ServerShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server exited")
}

// requestIDMiddleware tags every request with an id so gateway calls spawned
// by it can be correlated in logs. Honors an inbound X-Request-ID.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), requestID))
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// corsMiddleware reflects allowed origins from the comma-separated
// configuration value. "*" allows any origin.
func corsMiddleware(allowedOrigins string) gin.HandlerFunc {
	allowed := strings.Split(allowedOrigins, ",")
	for i := range allowed {
		allowed[i] = strings.TrimSpace(allowed[i])
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		for _, candidate := range allowed {
			if candidate == "*" || candidate == origin {
				if candidate == "*" {
					c.Header("Access-Control-Allow-Origin", "*")
				} else {
					c.Header("Access-Control-Allow-Origin", origin)
					c.Header("Vary", "Origin")
				}
				break
			}
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
