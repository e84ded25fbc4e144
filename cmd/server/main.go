package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"osas-connect/config"
	"osas-connect/internal/api/handler"
	"osas-connect/internal/api/router"
	"osas-connect/internal/app"
	"osas-connect/internal/scheduler"
	applogger "osas-connect/pkg/logger"
)

func main() {
	// 1. config
	cfg, err := config.Load(os.Getenv("OSAS_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting osas-connect",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database, redis, services
	a, err := app.New(cfg, logger, app.Options{})
	if err != nil {
		logger.Fatal("bootstrap failed", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. in-process queue worker; osasctl serve-worker can run more
	workerDone := make(chan struct{})
	if w := a.Worker(); w != nil {
		go func() {
			defer close(workerDone)
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("job worker stopped", zap.Error(err))
			}
		}()
	} else {
		close(workerDone)
		logger.Warn("redis unavailable, mail is dispatched inline")
	}

	// 5. daily reminders
	sched, err := scheduler.New(&cfg.Scheduler, a.Service.Reminder, logger)
	if err != nil {
		logger.Fatal("scheduler init failed", zap.Error(err))
	}
	sched.Start(ctx)

	// 6. HTTP
	cookie := &handler.CookieOptions{
		Path:           "/api/v1/auth",
		Secure:         strings.HasPrefix(cfg.Server.BaseURL, "https://"),
		MaxAge:         cfg.Auth.RefreshTokenTTLDefault,
		RememberMaxAge: cfg.Auth.RefreshTokenTTLRemember,
	}
	h := handler.NewHandler(a.Service, cookie, int64(cfg.Server.MaxUploadMB)<<20)
	engine := router.Setup(cfg, h, a.JWT, a.TokenChecker(), a.RateLimiter(), logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 7. graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}

	sched.Stop()
	cancel()
	<-workerDone
	a.Close()

	logger.Info("server stopped")
}
