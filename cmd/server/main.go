package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/reservation-dashboard/internal/backend"
	"github.com/iliyamo/reservation-dashboard/internal/cache"
	"github.com/iliyamo/reservation-dashboard/internal/config"
	"github.com/iliyamo/reservation-dashboard/internal/database"
	"github.com/iliyamo/reservation-dashboard/internal/handler"
	"github.com/iliyamo/reservation-dashboard/internal/middleware"
	"github.com/iliyamo/reservation-dashboard/internal/queue"
	"github.com/iliyamo/reservation-dashboard/internal/repository"
	"github.com/iliyamo/reservation-dashboard/internal/router"
	"github.com/iliyamo/reservation-dashboard/internal/service"
	"github.com/iliyamo/reservation-dashboard/internal/snapshot"
	"github.com/iliyamo/reservation-dashboard/internal/viewmodel"
)

var interruptSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
	syscall.SIGINT,
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("cannot read .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	if cfg.Dev() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), interruptSignals...)
	defer stop()

	mapper, err := viewmodel.NewMapper(cfg.Window, cfg.SlotHeight, cfg.Location)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid layout settings")
	}
	opts := service.Options{
		Mapper:    mapper,
		UnitPrice: cfg.UnitPrice,
		Currency:  cfg.Currency,
		Places:    cfg.Places,
		MinGap:    cfg.MinGap,
	}

	src, closeSource := openSource(ctx, cfg)
	defer closeSource()

	rdb := config.NewRedisClient(ctx)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}
	// Per-date reads share cached lists; the board session always reads
	// through to the source.
	dayCache := cache.NewReservations(src, cfg.Cache, rdb)

	hooks := service.Hooks{Invalidator: dayCache, Origin: uuid.NewString()}
	if cfg.Events.Enabled {
		hooks.Publisher = service.NewAMQPPublisher(cfg.Events.URL, cfg.Events.Exchange)
	}

	board := service.NewBoard(snapshot.NewLoader(src, snapshot.NewStore(), cfg.Backend.Timeout), opts, hooks)
	if err := board.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("initial snapshot failed, dashboard starts in error state")
	}
	days := service.NewDays(dayCache, opts)

	waitGroup, ctx := errgroup.WithContext(ctx)

	runEventConsumer(ctx, waitGroup, cfg, board)
	runRefreshScheduler(ctx, waitGroup, cfg, board)
	runEchoServer(ctx, waitGroup, cfg, rdb, router.Handlers{
		Board:        handler.NewBoardHandler(board),
		Days:         handler.NewDaysHandler(days, cfg.Location),
		Reservations: handler.NewReservationHandler(board),
	})

	if err := waitGroup.Wait(); err != nil {
		log.Fatal().Err(err).Msg("error from wait group")
	}
}

// openSource selects the reservation backend.
func openSource(ctx context.Context, cfg config.Config) (snapshot.Source, func()) {
	switch cfg.Source {
	case config.SourceMySQL:
		db, err := database.Open(ctx, database.Config(cfg.DB))
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to mysql")
		}
		log.Info().Str("host", cfg.DB.Host).Str("db", cfg.DB.Name).Msg("reading reservations from mysql")
		return repository.NewReservationRepo(db, cfg.Location), func() { _ = db.Close() }
	default:
		log.Info().Str("url", cfg.Backend.URL).Msg("reading reservations from backend")
		return backend.New(cfg.Backend.URL, cfg.Backend.Timeout), func() {}
	}
}

func runEventConsumer(ctx context.Context, waitGroup *errgroup.Group, cfg config.Config, board *service.Board) {
	if !cfg.Events.Enabled {
		return
	}
	waitGroup.Go(func() error {
		err := queue.Consume(ctx, cfg.Events.URL, cfg.Events.Exchange, board.Notify)
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("event consumer stopped")
			return nil
		}
		return err
	})
}

func runRefreshScheduler(ctx context.Context, waitGroup *errgroup.Group, cfg config.Config, board *service.Board) {
	if cfg.Refresh == "" {
		return
	}
	scheduler := service.NewScheduler(cfg.Refresh, cfg.Location, cfg.Backend.Timeout, board.Load)
	if err := scheduler.Start(); err != nil {
		log.Error().Err(err).Str("spec", cfg.Refresh).Msg("failed to start refresh scheduler")
		return
	}
	waitGroup.Go(func() error {
		<-ctx.Done()
		scheduler.Stop()
		return nil
	})
}

func runEchoServer(
	ctx context.Context,
	waitGroup *errgroup.Group,
	cfg config.Config,
	rdb *redis.Client,
	h router.Handlers,
) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Metrics())

	router.RegisterRoutes(e, h, middleware.NewTokenBucket(cfg.RateLimit, rdb))

	e.Server.ReadHeaderTimeout = 10 * time.Second
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.IdleTimeout = 120 * time.Second

	addr := ":" + cfg.Port
	waitGroup.Go(func() error {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Str("tz", cfg.Location.String()).Msg("start HTTP server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server failed to serve")
			return err
		}
		return nil
	})

	waitGroup.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("graceful shutdown HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("HTTP server forced to shutdown")
			return err
		}
		log.Info().Msg("HTTP server is stopped")
		return nil
	})
}
