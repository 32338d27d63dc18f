package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wicki/internal/config"
	"wicki/internal/observability/logging"
	"wicki/internal/observability/metrics"
	impl "wicki/internal/service/impl"
	"wicki/internal/store"
	httpx "wicki/internal/transport/http"
	"wicki/pkg/db"
)

func main() {
	cfg := config.Load()

	logger := logging.NewLogger(logging.Config{
		ServiceName: "wicki",
		Environment: cfg.AppEnv,
		Level:       cfg.LogLevel,
	})
	slog.SetDefault(logger)
	logger.Info("starting service")

	metrics.MustRegister("wicki")

	gdb, err := db.OpenGorm(db.Config{
		Driver: cfg.DatabaseDriver,
		DSN:    cfg.DatabaseURL,
		LogSQL: cfg.LogSQL,
	})
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := store.Migrate(ctx, gdb, cfg.DatabaseDriver); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}
	st := store.New(gdb)

	perms := impl.NewPermissionServiceImpl(st)
	if err := perms.SeedDefaults(ctx); err != nil {
		logger.Error("seed roles", "error", err)
		os.Exit(1)
	}

	cookies, err := httpx.NewCookieCodec(cfg.SessionSecrets, cfg.SecureCookies())
	if err != nil {
		logger.Error("cookie codec", "error", err)
		os.Exit(1)
	}

	h := &httpx.Handler{
		Auth:          impl.NewAuthServiceImpl(st, impl.NewPasswordServiceArgon2id(), cfg.SessionTTL),
		Permissions:   perms,
		Verifications: impl.NewVerificationServiceImpl(st, cfg.VerificationPeriod),
		Users:         impl.NewUserServiceImpl(st),
		Posts:         impl.NewPostServiceImpl(st),
		Email:         impl.NewEmailServiceImpl(cfg.ResendAPIKey, cfg.EmailFrom, cfg.IsDevelopment()),
		Cookies:       cookies,
		Ping:          st.Ping,
		Dev:           cfg.IsDevelopment(),
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: httpx.NewRouter(h, httpx.RouterOptions{
			CORSOrigins:    cfg.CORSOrigins,
			LoginRateLimit: cfg.LoginRateLimit,
			HTTPSOnly:      cfg.SecureCookies(),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	logger.Info("wicki listening", "addr", srv.Addr, "driver", cfg.DatabaseDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}
