package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariebrainware/neuro-clinic/config"
	"github.com/ariebrainware/neuro-clinic/model"
	"github.com/ariebrainware/neuro-clinic/util"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "neuro-clinic",
		Short: "Neuro clinic records API",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			return util.InitLogger(util.LogConfig{
				Level:       cfg.LogLevel,
				Environment: cfg.AppEnv,
				ServiceName: cfg.AppName,
			})
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			util.GetLogger().Info("schema migrated")
			return closeDatabase(db)
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default disorder catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			if err := model.SeedDisorders(db); err != nil {
				return fmt.Errorf("seed disorders: %w", err)
			}
			util.GetLogger().Info("disorders seeded", zap.Int("count", len(model.DefaultDisorders)))
			return closeDatabase(db)
		},
	}
}

// openDatabase connects and migrates every application table.
func openDatabase() (*gorm.DB, error) {
	db, err := config.ConnectMySQL()
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

func closeDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func runServer() error {
	cfg := config.LoadConfig()
	log := util.GetLogger()
	defer func() { _ = log.Sync() }()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = closeDatabase(db) }()

	if _, err := config.ConnectRedis(cfg.Redis); err != nil {
		// Sessions and rate limiting are disabled without Redis; tokens stay valid until expiry.
		log.Warn("redis unavailable", zap.Error(err))
	}

	util.SetAuditLoggerDB(db)
	if cfg.JWTSecret != "" {
		util.SetJWTSecret(cfg.JWTSecret)
	}
	if len(util.GetJWTSecretByte()) == 0 {
		return errors.New("JWTSECRET must be set")
	}

	gin.SetMode(cfg.GinMode)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           newRouter(cfg, db),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
