package server

import (
	"context"
	"io"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lost-woods/mulligan/src/api"
	"github.com/lost-woods/mulligan/src/config"
	"github.com/lost-woods/mulligan/src/decklist"
	"github.com/lost-woods/mulligan/src/rng"
)

type Server struct {
	port   string
	router *gin.Engine
}

// New wires the HTTP API. r is wrapped so that requests and the background
// health check can share it. The health check only runs for the serial
// device and stops with ctx.
func New(ctx context.Context, cfg config.Config, r io.Reader, h *rng.Health, list *decklist.List, log *zap.SugaredLogger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	r = rng.NewShared(r, h)
	if cfg.Source == rng.SourceSerial {
		go rng.PeriodicHealthCheck(ctx, r, h, cfg.HealthInterval)
	}

	router.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET"},
		AllowHeaders:     []string{"X-API-KEY", "Accept"},
		AllowAllOrigins:  true,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(api.CheckHeader("X-API-KEY", cfg.APIKey))

	handlers := api.NewHandlers(r, h, log, list, cfg.Land, cfg.HandSize)
	router.GET("/mana", handlers.Mana)
	router.GET("/lands", handlers.Lands)
	router.GET("/lands/plan", handlers.LandPlan)
	router.GET("/hand", handlers.Hand)
	router.GET("/export", handlers.Export)
	router.GET("/export/qr", handlers.ExportQR)
	router.GET("/health", handlers.Health)

	return &Server{port: cfg.Port, router: router}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() *gin.Engine { return s.router }

func (s *Server) Run() error {
	return s.router.Run(":" + s.port)
}

func requestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
