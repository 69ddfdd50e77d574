package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/perchos/mailslot/internal/api/http"
	"github.com/perchos/mailslot/internal/api/middleware"
	"github.com/perchos/mailslot/internal/api/ws"
	"github.com/perchos/mailslot/internal/device"
	"github.com/perchos/mailslot/internal/infrastructure/config"
	"github.com/perchos/mailslot/internal/infrastructure/logging"
	"github.com/perchos/mailslot/internal/infrastructure/monitoring"
	"github.com/perchos/mailslot/internal/infrastructure/tracing"
	"github.com/perchos/mailslot/internal/mailbox"
	mailboxProvider "github.com/perchos/mailslot/internal/providers/mailbox"
	"github.com/perchos/mailslot/internal/service"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	devices  *device.Manager
	registry *service.Registry
	bus      *mailbox.Bus
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize logger
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing mailslot server",
		zap.String("port", cfg.Server.Port),
		zap.Int("store_max_entries", cfg.Store.MaxEntries),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()

	// Event bus feeds watch connections
	bus := mailbox.NewBus()

	// One explicit store instance; no package-level state
	store := mailbox.NewStore(cfg.Store.MaxEntries).WithEvents(bus)

	// Device table (optional)
	devices := device.NewManager(store).WithMetrics(metrics)
	if cfg.Store.DeviceTable != "" {
		table, err := device.LoadTable(cfg.Store.DeviceTable)
		if err != nil {
			return nil, fmt.Errorf("failed to load device table: %w", err)
		}
		devices = devices.WithTable(table)
		logger.Info("Loaded device table",
			zap.String("path", cfg.Store.DeviceTable),
			zap.Int("slots", len(table.Slots())),
		)
	}

	// Register service providers
	registry := service.NewRegistry()
	if err := registry.Register(mailboxProvider.NewProvider(devices)); err != nil {
		return nil, fmt.Errorf("failed to register mailbox provider: %w", err)
	}

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	tracer := tracing.New("mailslot", logger.Logger)
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	// Create handlers
	handlers := apihttp.NewHandlers(devices, registry)
	wsHandler := ws.NewHandler(bus, logger).WithMetrics(metrics)

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Device surface
	router.GET("/slots", handlers.ListSlots)
	router.DELETE("/slots/:slot", handlers.UnregisterSlot)
	router.POST("/handles", handlers.OpenHandle)
	router.POST("/handles/:id/select", handlers.SelectChannel)
	router.POST("/handles/:id/write", handlers.WriteMessage)
	router.GET("/handles/:id/read", handlers.ReadMessage)
	router.DELETE("/handles/:id", handlers.CloseHandle)

	// Service management
	router.GET("/services", handlers.ListServices)
	router.POST("/services/execute", handlers.ExecuteService)

	// Watch stream
	router.GET("/watch", wsHandler.HandleConnection)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router:   router,
		devices:  devices,
		registry: registry,
		bus:      bus,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	// Sync logger before exit
	s.logger.Sync()

	return nil
}
