package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adibus/fleet/internal/config"
	"github.com/adibus/fleet/internal/handler"
	"github.com/adibus/fleet/internal/mailer"
	"github.com/adibus/fleet/internal/middleware"
	"github.com/adibus/fleet/internal/repo"
	"github.com/adibus/fleet/internal/service"
)

const shutdownTimeout = 15 * time.Second

// stores bundles the repositories picked by STORAGE_DRIVER.
type stores struct {
	buses repo.BusRepo
	fares repo.FareRepo
	close func()
}

// serve wires every dependency and runs the HTTP server until ctx is
// cancelled, then drains in-flight requests.
func serve(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	var sender service.MailSender
	if cfg.SMTP.Enabled() {
		sender = mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		log.Warn("SMTP_HOST not set; contact emails will be logged, not sent")
		sender = mailer.NewLogSender(log)
	}

	srv := handler.NewServer(handler.Deps{
		Buses:    service.NewBusService(st.buses),
		Seats:    service.NewSeatService(st.buses),
		Contact:  service.NewContactService(sender, cfg.AdminEmail),
		Fares:    service.NewFareService(st.fares),
		Manifest: service.NewManifestService(st.buses),
		Logger:   log,
	})

	// Middleware order: RequestID -> RealIP -> Logger -> Recoverer -> CORS -> body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(log))
	r.Use(middleware.NewRecoverer(log))
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Mount("/", handler.Handler(srv))

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Contact submissions wait on the SMTP relay.
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", httpSrv.Addr, "storage", cfg.StorageDriver)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// openStores returns the Postgres repositories, applying migrations first
// when configured, or the in-memory store.
func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (stores, error) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Warn("using in-memory storage; data is lost on restart")
		mem := repo.NewMemoryStore()
		return stores{buses: mem.Buses(), fares: mem.Fares(), close: func() {}}, nil
	}

	if cfg.MigrateOnStart {
		if err := migrateUp(ctx, cfg.DatabaseURL, log); err != nil {
			return stores{}, err
		}
	}

	// pgxpool.New does not open connections; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return stores{}, fmt.Errorf("create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return stores{}, fmt.Errorf("connect to database: %w", err)
	}
	log.Info("database connection established")

	return stores{
		buses: repo.NewBusRepo(pool),
		fares: repo.NewFareRepo(pool),
		close: pool.Close,
	}, nil
}
