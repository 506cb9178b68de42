package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"
	"housing-coop-go/internal/config"
	"housing-coop-go/internal/db"
	"housing-coop-go/internal/metrics"
	"housing-coop-go/internal/transport/httpserver"
	"housing-coop-go/internal/transport/httpserver/handler"
	"housing-coop-go/internal/transport/httpserver/middleware"
	"housing-coop-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	log        logger.Logger
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn, log); err != nil {
		_ = db.Close(dbConn)
		return nil, fmt.Errorf("migrate: %w", err)
	}

	services := NewServices(cfg, dbConn)
	deposit, err := services.Ledger.EnsureDepositFund(ctx)
	if err != nil {
		_ = db.Close(dbConn)
		return nil, fmt.Errorf("ensure deposit fund: %w", err)
	}
	log.Info("app: deposit fund ready", "fund_id", deposit.ID, "name", deposit.Name)

	log.Info("app: initializing router")
	handlers := handler.New(
		services.Households,
		services.Ledger,
		services.Rent,
		services.Bidding,
		services.Schedules,
		services.Expenses,
		services.ChangeLog,
		services.Analytics,
		log,
	)
	actors := middleware.NewActorResolver(services.Households, log)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}
	router := httpserver.NewRouter(cfg, handlers, actors, m)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
		log:        log,
	}, nil
}

// Run serves HTTP until ctx is cancelled or the listener fails, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		a.log.Info("http: listening", "addr", a.httpServer.Addr)
		serveErr <- a.httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http serve: %w", err)
	case <-ctx.Done():
		a.log.Info("app: shutdown signal received")
	}

	timeout := a.cfg.HTTP.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return db.Close(a.db)
}
