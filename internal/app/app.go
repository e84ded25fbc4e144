// Package app assembles repositories, services and background dispatch
// for the server and the osasctl commands.
package app

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"osas-connect/config"
	"osas-connect/internal/api/middleware"
	"osas-connect/internal/job"
	"osas-connect/internal/mail"
	"osas-connect/internal/repository"
	"osas-connect/internal/service"
	"osas-connect/pkg/database"
	"osas-connect/pkg/jwt"
	"osas-connect/pkg/redis"
	"osas-connect/pkg/storage"
)

// Options bootstrap switches
type Options struct {
	SkipMigrations bool
	// RequireRedis fails instead of falling back to inline dispatch
	RequireRedis bool
}

// App wired dependencies. Redis and Queue are nil when Redis is unavailable;
// Inline is nil when Queue is set.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       *gorm.DB
	Redis    *redis.Client
	Repo     *repository.Repository
	JWT      *jwt.Manager
	Service  *service.Service
	Queue    *job.Queue
	Inline   *job.InlineDispatcher
	Handlers job.Handlers
}

// New connects to PostgreSQL and (optionally) Redis and builds the service layer
func New(cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	a := &App{Config: cfg, Logger: logger, DB: db}

	if !opts.SkipMigrations {
		sqlDB, err := db.DB()
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("get sql.DB: %w", err)
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			a.Close()
			return nil, err
		}
	}

	// Redis is optional: blacklist and rate limit fail open, mail goes inline
	if cfg.Redis.Addr != "" {
		rdb, err := redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			if opts.RequireRedis {
				a.Close()
				return nil, err
			}
			logger.Warn("redis unavailable, running degraded", zap.Error(err))
		} else {
			a.Redis = rdb
		}
	} else if opts.RequireRedis {
		a.Close()
		return nil, fmt.Errorf("redis.addr is not configured")
	}

	renderer, err := mail.NewRenderer()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load mail templates: %w", err)
	}

	var store storage.Store
	if cfg.Server.UploadDir != "" {
		ls, err := storage.NewLocalStore(cfg.Server.UploadDir)
		if err != nil {
			logger.Warn("upload directory unavailable, document uploads disabled",
				zap.String("dir", cfg.Server.UploadDir), zap.Error(err))
		} else {
			store = ls
		}
	}

	a.Handlers = job.Handlers{
		mail.JobType: mail.JobHandler(mail.NewSMTPMailer(&cfg.Mail, logger)),
	}
	policy := job.RetryPolicy{MaxAttempts: cfg.Queue.MaxAttempts, Backoff: cfg.Queue.Backoff}

	svcOpts := service.Options{Store: store, Renderer: renderer}
	if a.Redis != nil {
		a.Queue = job.NewQueue(a.Redis, job.DefaultQueue, policy, logger)
		svcOpts.Dispatcher = a.Queue
		svcOpts.Blacklist = a.Redis
		svcOpts.Deduper = a.Redis
	} else {
		a.Inline = job.NewInlineDispatcher(a.Handlers, policy, logger)
		svcOpts.Dispatcher = a.Inline
	}

	a.Repo = repository.NewRepository(db)
	a.JWT = jwt.NewManager(&cfg.Auth)
	a.Service = service.NewService(cfg, a.Repo, a.JWT, svcOpts, logger)

	return a, nil
}

// Worker queue consumer; nil without Redis
func (a *App) Worker() *job.Worker {
	if a.Queue == nil {
		return nil
	}
	return job.NewWorker(a.Queue, a.Handlers, a.Config.Queue.PollInterval, a.Logger)
}

// TokenChecker nil interface when Redis is unavailable
func (a *App) TokenChecker() middleware.TokenChecker {
	if a.Redis == nil {
		return nil
	}
	return a.Redis
}

// RateLimiter nil interface when Redis is unavailable
func (a *App) RateLimiter() middleware.RateLimiter {
	if a.Redis == nil {
		return nil
	}
	return a.Redis
}

// Close waits for inline jobs, then releases connections
func (a *App) Close() {
	if a.Inline != nil {
		a.Inline.Wait()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
