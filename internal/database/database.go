// Package database opens the store that keeps finished scans for the demo
// analysis service.
package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/threatflux/secureReviewGo/internal/config"
	"github.com/threatflux/secureReviewGo/internal/models"
)

// Database represents the interface for database operations
type Database interface {
	// DB returns the underlying database instance
	DB() *gorm.DB

	// Connect establishes a connection to the database
	Connect() error

	// Close closes the database connection
	Close() error

	// Migrate creates or updates the tables of the given models
	Migrate(models ...interface{}) error

	// Ping checks if the database is reachable
	Ping() error
}

// Factory creates a database for a configuration
type Factory interface {
	Create(cfg *config.Config, log *logrus.Logger) (Database, error)
}

// DefaultFactory picks the driver from database.type
type DefaultFactory struct{}

// NewFactory creates a new database factory
func NewFactory() Factory {
	return &DefaultFactory{}
}

// Create returns an unconnected database for cfg
func (f *DefaultFactory) Create(cfg *config.Config, log *logrus.Logger) (Database, error) {
	switch cfg.Database.Type {
	case "postgres":
		return NewPostgresDB(cfg, log), nil
	case "sqlite":
		return NewSQLiteDB(cfg, log), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
}

// Open connects the configured database and migrates the scan tables
func Open(cfg *config.Config, log *logrus.Logger) (Database, error) {
	db, err := NewFactory().Create(cfg, log)
	if err != nil {
		return nil, err
	}

	log.WithField("type", cfg.Database.Type).Info("Connecting to database")
	if err := db.Connect(); err != nil {
		return nil, err
	}
	if err := db.Migrate(&models.ScanRecord{}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate scan records: %w", err)
	}
	return db, nil
}

// gormLogger bridges GORM logging to logrus at the configured level
func gormLogger(log *logrus.Logger, level string) logger.Interface {
	var w logger.Writer = discardWriter{}
	if log != nil {
		w = NewLogrusAdapter(log)
	}
	return logger.New(w, logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  getLogLevel(level),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// getLogLevel maps a logrus level name to a GORM log level
func getLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug", "trace":
		return logger.Info
	case "info", "warn", "warning":
		return logger.Warn
	case "error", "fatal", "panic":
		return logger.Error
	default:
		return logger.Silent
	}
}

// LogrusAdapter adapts a *logrus.Logger to GORM's logger.Writer interface
type LogrusAdapter struct {
	logger *logrus.Logger
}

// NewLogrusAdapter creates a new Logrus adapter for GORM
func NewLogrusAdapter(log *logrus.Logger) *LogrusAdapter {
	return &LogrusAdapter{logger: log}
}

// Printf logs at debug; GORM filters by its own level first
func (l *LogrusAdapter) Printf(format string, args ...interface{}) {
	l.logger.WithField("component", "gorm").Debugf(format, args...)
}

type discardWriter struct{}

func (discardWriter) Printf(string, ...interface{}) {}
