package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/expertec/api-web-negocios/internal/handler"
	"github.com/expertec/api-web-negocios/internal/middleware"
	"github.com/expertec/api-web-negocios/internal/storage"
	"github.com/expertec/api-web-negocios/pkg/config"
	"github.com/expertec/api-web-negocios/pkg/database"
	"github.com/expertec/api-web-negocios/pkg/jwtutil"
	"github.com/expertec/api-web-negocios/pkg/logger"
	"github.com/expertec/api-web-negocios/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting negocio service...", cfg.LogConfig()...)

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Initialize authorization guards
	middleware.Initialize(cfg)

	// Initialize blob store client
	storage.Initialize(cfg, log)
	log.Info("Blob store client initialized", zap.String("base_url", cfg.Storage.BaseURL))

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Negocio admin login
	auth := e.Group("/auth")
	auth.POST("/login", handler.Login)

	// Super-admin tenant lifecycle - shared key required
	admin := e.Group("/api/super-admin/negocios")
	admin.Use(middleware.SuperAdminMiddleware)
	admin.POST("", handler.CreateNegocio)
	admin.GET("", handler.ListNegocios)
	admin.PUT("/:id", handler.UpdateNegocio)
	admin.DELETE("/:id", handler.DeleteNegocio)

	// Tenant-scoped routes - negocio must exist; session token enforced
	// when SESSION_ENFORCE is on
	negocio := e.Group("/api/:negocioID")
	negocio.Use(middleware.RequireNegocioContext)

	negocio.GET("/config", handler.GetConfig)
	negocio.PUT("/config", handler.UpdateConfig)
	negocio.GET("/secciones", handler.GetSecciones)
	negocio.PUT("/secciones", handler.UpdateSecciones)
	negocio.POST("/brief", handler.SubmitBrief)
	negocio.POST("/generar-texto", handler.GenerateText)
	negocio.POST("/upload-imagen", handler.UploadImage)
	negocio.DELETE("/delete-imagen", handler.DeleteImage)

	// One generic CRUD set covers all six subcollections
	negocio.GET("/:recurso", handler.ListRecursos)
	negocio.POST("/:recurso", handler.CreateRecurso)
	negocio.PUT("/:recurso/:id", handler.UpdateRecurso)
	negocio.DELETE("/:recurso/:id", handler.DeleteRecurso)
	negocio.PUT("/pedidos/:id/estado", handler.UpdatePedidoEstado)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
