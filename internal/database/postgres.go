package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/threatflux/secureReviewGo/internal/config"
)

// PostgresDB implements the Database interface for PostgreSQL
type PostgresDB struct {
	config *config.Config
	db     *gorm.DB
	sqlDB  *sql.DB
	log    *logrus.Logger
}

// NewPostgresDB creates a new PostgreSQL database instance
func NewPostgresDB(cfg *config.Config, log *logrus.Logger) *PostgresDB {
	return &PostgresDB{config: cfg, log: log}
}

// Connect opens the connection pool
func (p *PostgresDB) Connect() error {
	cfg := *p.config
	cfg.Database.SSLMode = sslMode(cfg.Database.SSLMode)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormLogger(p.log, cfg.Logging.Level),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	if cfg.Database.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	p.db = db
	p.sqlDB = sqlDB
	return nil
}

// Close closes the database connection
func (p *PostgresDB) Close() error {
	if p.sqlDB != nil {
		return p.sqlDB.Close()
	}
	return nil
}

// DB returns the underlying GORM database instance
func (p *PostgresDB) DB() *gorm.DB {
	return p.db
}

// Ping checks if the database is reachable
func (p *PostgresDB) Ping() error {
	if p.sqlDB == nil {
		return errors.New("database connection not established")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.sqlDB.PingContext(ctx)
}

// Migrate runs database migrations
func (p *PostgresDB) Migrate(models ...interface{}) error {
	if p.db == nil {
		return errors.New("database connection not established for migration")
	}
	return p.db.AutoMigrate(models...)
}

// sslMode falls back to disable for unknown modes
func sslMode(mode string) string {
	switch strings.ToLower(mode) {
	case "disable", "require", "verify-ca", "verify-full":
		return strings.ToLower(mode)
	default:
		return "disable"
	}
}
