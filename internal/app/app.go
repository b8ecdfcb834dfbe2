// Package app wires configuration, storage, services and the HTTP router
// into one runnable unit.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/bookhaven/library-system/internal/api"
	"github.com/bookhaven/library-system/internal/api/handler"
	"github.com/bookhaven/library-system/internal/core/ports"
	"github.com/bookhaven/library-system/internal/core/service"
	"github.com/bookhaven/library-system/internal/infrastructure/db/memory"
	mongodb "github.com/bookhaven/library-system/internal/infrastructure/db/mongo"
	redisdb "github.com/bookhaven/library-system/internal/infrastructure/db/redis"
	"github.com/bookhaven/library-system/internal/infrastructure/queue"
	"github.com/bookhaven/library-system/internal/infrastructure/scheduler"
	"github.com/bookhaven/library-system/internal/pkg/config"
	"github.com/bookhaven/library-system/internal/seed"
)

type App struct {
	cfg *config.Config
	log zerolog.Logger

	store  ports.Store
	locker ports.Locker
	clock  ports.Clock

	Auth      *service.AuthService
	Catalog   *service.CatalogService
	Users     *service.UserService
	Records   *service.RecordService
	Sweeper   *service.OverdueSweeper
	Loans     *queue.Dispatcher
	Scheduler *scheduler.OverdueScheduler

	ready   map[string]handler.Pinger
	closers []func(context.Context) error
}

// New connects the configured backends and builds every service. Call Close
// to release the connections.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{
		cfg:   cfg,
		log:   log,
		clock: service.SystemClock{},
		ready: map[string]handler.Pinger{},
	}

	if err := a.openStore(ctx); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	if err := a.openLocker(ctx); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	a.Auth = service.NewAuthService(a.store.Users(), a.clock, cfg.JWTSecret, cfg.TokenTTL)
	a.Catalog = service.NewCatalogService(a.store, a.clock, log)
	a.Users = service.NewUserService(a.store, a.clock, log)
	a.Sweeper = service.NewOverdueSweeper(a.store.Records(), log)
	a.Records = service.NewRecordService(a.store.Records(), a.Sweeper, a.clock, log)
	a.Loans = queue.NewDispatcher(cfg.Loans.Workers, service.NewLoanService(a.store, a.locker, a.clock, log), log)
	a.Scheduler = scheduler.NewOverdueScheduler(a.Sweeper, a.locker, a.clock, cfg.Loans.SweepInterval, log)

	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	if a.cfg.Store != config.StoreMongo {
		a.store = memory.New()
		a.log.Info().Str("store", config.StoreMemory).Msg("store ready")
		return nil
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      a.cfg.Mongo.URI,
		Database: a.cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	a.closers = append(a.closers, client.Disconnect)

	store := mongodb.NewStore(client, db)
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}
	a.store = store
	a.ready["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }

	a.log.Info().
		Str("store", config.StoreMongo).
		Str("database", a.cfg.Mongo.Database).
		Msg("store ready")
	return nil
}

func (a *App) openLocker(ctx context.Context) error {
	if !a.cfg.Redis.Enabled {
		a.locker = memory.NewLocker()
		return nil
	}

	client, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func(context.Context) error { return client.Close() })

	a.locker = redisdb.NewLocker(client, a.cfg.Redis.LockTTL)
	a.ready["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }

	a.log.Info().Str("addr", a.cfg.Redis.Addr).Msg("redis locker ready")
	return nil
}

// Router builds the HTTP surface over the app's services.
func (a *App) Router() *echo.Echo {
	return api.NewRouter(api.Deps{
		Auth:       a.Auth,
		Catalog:    a.Catalog,
		Loans:      a.Loans,
		Records:    a.Records,
		Users:      a.Users,
		Sweeper:    a.Sweeper,
		Clock:      a.clock,
		Ready:      a.ready,
		JWTSecret:  a.cfg.JWTSecret,
		LoginRate:  rate.Limit(a.cfg.Login.Rate),
		LoginBurst: a.cfg.Login.Burst,
		Log:        a.log,
	})
}

func (a *App) Seeder() *seed.Seeder {
	return seed.NewSeeder(a.Auth, a.Users, a.Catalog, a.log)
}

// SweepNow runs one overdue sweep at the current time.
func (a *App) SweepNow(ctx context.Context) (int, error) {
	n, err := a.Sweeper.Sweep(ctx, a.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("sweep: %w", err)
	}
	return n, nil
}

// Close releases backend connections in reverse order of opening.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
