package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/threatflux/secureReviewGo/internal/config"
	"github.com/threatflux/secureReviewGo/internal/database"
	"github.com/threatflux/secureReviewGo/internal/middleware"
	"github.com/threatflux/secureReviewGo/internal/models"
)

// Version is reported by the service banner
const Version = "1.0.0"

// AnalysisService is the engine behind the HTTP handlers
type AnalysisService interface {
	Analyze(ctx context.Context, req *models.ScanRequest) (*models.ScanResult, error)
	Scan(ctx context.Context, scanID string) (*models.ScanResult, error)
	Simulation(ctx context.Context, scanID string) (*models.AttackSimulation, error)
	Compliance(ctx context.Context, scanID string) (*models.ComplianceReport, error)
	Fix(vulnID string) *models.SecureFix
	Samples() models.SampleCode
	Lessons() []models.Lesson
}

// Server represents the API server
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *config.Config
	logger     *logrus.Logger
	db         database.Database
	service    AnalysisService
	limiter    *middleware.RateLimiter
}

// ServerConfig contains the dependencies of the API server
type ServerConfig struct {
	Config  *config.Config
	Logger  *logrus.Logger
	DB      database.Database // optional; enables the database health check
	Service AnalysisService
}

// NewServer creates a new API server with routes registered
func NewServer(cfg *ServerConfig) (*Server, error) {
	if cfg.Config == nil {
		return nil, errors.New("config is required")
	}
	if cfg.Service == nil {
		return nil, errors.New("analysis service is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
	}

	gin.SetMode(cfg.Config.Server.Mode)

	s := &Server{
		config:  cfg.Config,
		logger:  logger,
		db:      cfg.DB,
		service: cfg.Service,
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Config.Server.TrustedProxies); err != nil {
		return nil, err
	}
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.NewLoggingMiddleware(logger, middleware.WithSkipPaths("/swagger")).Logger())
	router.Use(middleware.NewRecoveryMiddleware(logger).Recovery())
	router.Use(middleware.CORS(cfg.Config.Security.CORS.AllowedOrigins...))

	if rl := cfg.Config.Security.RateLimiting; rl.Enabled {
		s.limiter = middleware.NewRateLimiter(rl.RequestsPerSecond, rl.Burst)
	}

	s.router = router
	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Config.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Config.Server.ReadTimeout,
		WriteTimeout: cfg.Config.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Router returns the gin engine
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Serve accepts connections on l until Shutdown. It returns nil after a
// graceful shutdown.
func (s *Server) Serve(l net.Listener) error {
	s.logger.WithField("address", l.Addr().String()).Info("Starting API server")
	if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on the configured address
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Shutdown stops accepting requests, waits for in-flight ones and closes
// the database
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Error during server shutdown")
	}

	if s.db != nil {
		if cerr := s.db.Close(); cerr != nil {
			s.logger.WithError(cerr).Error("Error closing database connection")
			if err == nil {
				err = cerr
			}
		}
	}

	s.logger.Info("API server shutdown complete")
	return err
}

// sweepLimiter drops idle rate-limit buckets until ctx is done
func (s *Server) sweepLimiter(ctx context.Context, every time.Duration) {
	if s.limiter == nil {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.limiter.Cleanup(10 * time.Minute); n > 0 {
				s.logger.WithField("removed", n).Debug("Pruned idle rate limiters")
			}
		}
	}
}

// StartMaintenance runs background housekeeping until ctx is done
func (s *Server) StartMaintenance(ctx context.Context) {
	go s.sweepLimiter(ctx, time.Minute)
}
