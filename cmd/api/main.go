package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/torrejavex-alt/sistema-asistencias/internal/auth"
	"github.com/torrejavex-alt/sistema-asistencias/internal/config"
	"github.com/torrejavex-alt/sistema-asistencias/internal/handler"
	"github.com/torrejavex-alt/sistema-asistencias/internal/httpmiddleware"
	"github.com/torrejavex-alt/sistema-asistencias/internal/roster"
	"github.com/torrejavex-alt/sistema-asistencias/internal/store"
)

func init() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.BootstrapSchema {
		if err := store.EnsureSchema(context.Background(), db.Client); err != nil {
			return err
		}
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var limiter httpmiddleware.Limiter
	if cfg.RateLimitBackend == "redis" {
		limiter = httpmiddleware.NewRedisWindow(redisClient.Client, "asistencias:ratelimit", cfg.RateLimitPerMin)
	} else {
		limiter = httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)
	}

	repo := roster.NewRepository(db.Client)
	h := handler.New(repo)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.GinMiddleware(limiter))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		ctx := c.Request.Context()
		dbHealthy := db.Client.PingContext(ctx) == nil
		redisHealthy := redisClient.Healthy(ctx)
		status := http.StatusOK
		if !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "db": dbHealthy, "redis": redisHealthy})
	})

	api := r.Group("/api")

	api.POST("/auth/login", h.Login(cfg.JWTIssuer, cfg.JWTSigningKey, cfg.TokenTTL))
	api.POST("/auth/register", h.Register)

	authed := api.Group("", auth.AdminAuth(cfg.JWTSigningKey, cfg.JWTIssuer))

	authed.GET("/auth/verify", h.Verify)

	authed.GET("/usuarios", h.ListMembers)
	authed.POST("/usuarios", h.CreateMember)
	authed.PUT("/usuarios/:id", h.UpdateMember)
	authed.DELETE("/usuarios/:id", h.DeleteMember)
	authed.POST("/usuarios/import", h.ImportMembers)

	authed.GET("/eventos", h.ListEvents)
	authed.POST("/eventos", h.CreateEvent)
	authed.PUT("/eventos/:id", h.UpdateEvent)
	authed.DELETE("/eventos/:id", h.DeleteEvent)

	authed.GET("/tipos", h.ListTypes)

	authed.GET("/asistencias", h.ListRecords)
	authed.POST("/asistencias", h.CreateRecord)
	authed.POST("/asistencias/import", h.ImportAttendance)
	authed.GET("/asistencias/reporte-por-fecha", h.ReportByDate)
	authed.DELETE("/asistencias/delete-all", h.DeleteAllRecords)
	authed.DELETE("/asistencias/delete-by-user/:id", h.DeleteRecordsByMember)
	authed.PUT("/asistencias/:id_usuario/:id_evento", h.UpdateRecord)
	authed.DELETE("/asistencias/:id_usuario/:id_evento", h.DeleteRecord)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("starting server", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	// give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("server forced shutdown", "error", err)
	}

	slog.Info("server exited")
	return nil
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
