// Command server runs the demo analysis service consumed by the review CLI.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/threatflux/secureReviewGo/internal/analysis"
	"github.com/threatflux/secureReviewGo/internal/api"
	"github.com/threatflux/secureReviewGo/internal/config"
	"github.com/threatflux/secureReviewGo/internal/database"
	"github.com/threatflux/secureReviewGo/internal/database/repositories"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	loader := config.NewLoader(nil)
	var configFile string

	cmd := &cobra.Command{
		Use:           "securereview-server",
		Short:         "Serve the SecureReview analysis API",
		Version:       fmt.Sprintf("%s (%s) built on %s", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loader.Load(configFile)
			if err != nil {
				return err
			}
			logger := cfg.NewLogger(cmd.ErrOrStderr())
			logger.WithFields(logrus.Fields{
				"version":    Version,
				"commit":     Commit,
				"build_date": BuildDate,
			}).Info("Starting SecureReview analysis service")

			l, err := net.Listen("tcp", cfg.Addr())
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, logger, l)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "config file (default: securereview.yaml in ., ./config or $HOME/.securereview)")
	flags.String("host", "", "listen host")
	flags.Int("port", 0, "listen port")
	flags.String("db", "", "database type (sqlite|postgres)")
	flags.String("log-level", "", "log level")

	v := loader.Viper()
	_ = v.BindPFlag("server.host", flags.Lookup("host"))
	_ = v.BindPFlag("server.port", flags.Lookup("port"))
	_ = v.BindPFlag("database.type", flags.Lookup("db"))
	_ = v.BindPFlag("logging.level", flags.Lookup("log-level"))

	return cmd
}

// run serves on l until ctx is canceled, then shuts down gracefully
func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger, l net.Listener) error {
	logger.WithFields(logrus.Fields{
		"type": cfg.Database.Type,
		"name": cfg.Database.Name,
	}).Info("Initializing database connection")

	db, err := database.Open(cfg, logger)
	if err != nil {
		l.Close()
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	svc := analysis.NewService(repositories.NewScanRepository(db.DB()), nil, logger)
	server, err := api.NewServer(&api.ServerConfig{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Service: svc,
	})
	if err != nil {
		l.Close()
		db.Close()
		return fmt.Errorf("failed to initialize API server: %w", err)
	}

	server.StartMaintenance(ctx)

	serveErr := make(chan error, 1)
	go func() { serveErr <- server.Serve(l) }()

	select {
	case err := <-serveErr:
		db.Close()
		return err
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-serveErr
}

