package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zeinnaushad/elevate/internal/authz"
	"github.com/zeinnaushad/elevate/internal/config"
	"github.com/zeinnaushad/elevate/internal/infra/db"
	infraRepo "github.com/zeinnaushad/elevate/internal/infra/repository"
	"github.com/zeinnaushad/elevate/internal/logger"
	"github.com/zeinnaushad/elevate/internal/server"
	auth "github.com/zeinnaushad/elevate/internal/usecase/auth_usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	l := logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer func() { _ = l.Sync() }()
	l.Debug("config_loaded",
		zap.String("mode", cfg.Server.Mode),
		zap.String("driver", cfg.Database.Driver),
		zap.Bool("redis", cfg.Redis.Enabled),
	)

	gormDB, err := db.Connect(cfg.Database, cfg.Server.Mode)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	enforcer, err := authz.NewService(gormDB)
	if err != nil {
		return err
	}
	if err := enforcer.EnsureDefaultPolicy(); err != nil {
		return fmt.Errorf("authz default policy: %w", err)
	}

	ctx := context.Background()
	if cfg.Seed.Enabled {
		hash, err := auth.NewBcryptPasswordHasher(cfg.BcryptCost).Hash(cfg.Seed.AdminPassword)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		if err := infraRepo.Seed(ctx, gormDB, infraRepo.SeedAdmin{
			Username:     "admin",
			Email:        cfg.Seed.AdminEmail,
			PasswordHash: hash,
		}); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		l.Info("seed_checked", zap.String("admin_email", cfg.Seed.AdminEmail))
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + strconv.Itoa(cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			l.Warn("redis_unavailable_rate_limit_disabled", zap.Error(err))
			_ = rdb.Close()
			rdb = nil
		} else {
			defer func() { _ = rdb.Close() }()
		}
	}

	e := server.New(server.Deps{
		Config:   cfg,
		DB:       gormDB,
		Redis:    rdb,
		Enforcer: enforcer,
		Logger:   l,
	})
	return server.Run(e, cfg.Server.Addr(), l)
}
