package main

import (
	"flag"
	"os"
	"strings"
	"syscall"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/app"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/config"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/logger"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if cfg.Server.Mode == "release" {
		if isWeakSecret(cfg.JWT.SecretKey) {
			stdLog.Fatalf("JWT secret is weak or still the default; set a strong random key in production")
		}
	} else if isWeakSecret(cfg.JWT.SecretKey) {
		stdLog.Printf("warning: JWT secret is weak or still the default")
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("database init failed: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("database migration failed: %v", err)
	}

	defaultEmail := os.Getenv("INLZ_DEFAULT_ADVISER_EMAIL")
	defaultPass := os.Getenv("INLZ_DEFAULT_ADVISER_PASSWORD")
	if cfg.Server.Mode == "release" && defaultPass == "" {
		stdLog.Printf("warning: INLZ_DEFAULT_ADVISER_PASSWORD unset, skipping default adviser init")
	} else if err := models.InitDefaultAdviser(defaultEmail, defaultPass); err != nil {
		stdLog.Printf("warning: default adviser init failed: %v", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "run mode: all (default), api, worker")
	flag.Parse()

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("run failed: %v", err)
	}
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}
