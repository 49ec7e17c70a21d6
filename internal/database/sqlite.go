package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/threatflux/secureReviewGo/internal/config"
)

// SQLiteDB implements the Database interface for SQLite
type SQLiteDB struct {
	config *config.Config
	db     *gorm.DB
	sqlDB  *sql.DB
	log    *logrus.Logger
}

// NewSQLiteDB creates a new SQLite database instance
func NewSQLiteDB(cfg *config.Config, log *logrus.Logger) *SQLiteDB {
	return &SQLiteDB{config: cfg, log: log}
}

// Connect opens the database file, creating its directory when needed
func (s *SQLiteDB) Connect() error {
	path := s.config.Database.SQLite.Path
	if path == "" {
		path = "securereview.db"
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory for SQLite database: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger(s.log, s.config.Logging.Level),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if err := db.Exec(pragma).Error; err != nil && s.log != nil {
			s.log.WithError(err).WithField("pragma", pragma).Warn("Failed to set SQLite pragma")
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	// SQLite serializes writers
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	if s.config.Database.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(s.config.Database.ConnMaxLifetime)
	}

	s.db = db
	s.sqlDB = sqlDB
	return nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	if s.sqlDB != nil {
		return s.sqlDB.Close()
	}
	return nil
}

// DB returns the underlying GORM database instance
func (s *SQLiteDB) DB() *gorm.DB {
	return s.db
}

// Ping checks if the database is reachable
func (s *SQLiteDB) Ping() error {
	if s.sqlDB == nil {
		return errors.New("database connection not established")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.sqlDB.PingContext(ctx)
}

// Migrate runs database migrations
func (s *SQLiteDB) Migrate(models ...interface{}) error {
	if s.db == nil {
		return errors.New("database connection not established for migration")
	}
	return s.db.AutoMigrate(models...)
}
