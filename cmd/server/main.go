package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/cinemavault/internal/config"
	"github.com/iliyamo/cinemavault/internal/database"
	"github.com/iliyamo/cinemavault/internal/handler"
	"github.com/iliyamo/cinemavault/internal/middleware"
	"github.com/iliyamo/cinemavault/internal/queue"
	"github.com/iliyamo/cinemavault/internal/repository"
	"github.com/iliyamo/cinemavault/internal/router"
	"github.com/iliyamo/cinemavault/internal/service"
	"github.com/iliyamo/cinemavault/internal/upstream"
	"github.com/iliyamo/cinemavault/internal/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogger(cfg)

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server")
	}
}

func setupLogger(cfg config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogFormat != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// stores returns the rental and local movie stores for cfg.Store.Backend
// plus a function releasing their resources.
func stores(ctx context.Context, cfg config.Config) (repository.RentalStore, repository.MovieStore, func(), error) {
	if cfg.Store.Backend != "mysql" {
		return repository.NewMemoryRentalStore(), repository.NewMemoryMovieStore(), func() {}, nil
	}
	db, err := database.Open(cfg.DB)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}
	return repository.NewMySQLRentalStore(db), repository.NewMySQLMovieStore(db), closeDB, nil
}

func run(ctx context.Context, cfg config.Config) error {
	staff, err := utils.NewCredential(cfg.Staff.Username, cfg.Staff.Password, cfg.BcryptCost)
	if err != nil {
		return err
	}
	tokens, err := utils.NewTokenIssuer(cfg.Token.Signing, cfg.Token.Secret, cfg.Token.TTL, cfg.APIKey, nil)
	if err != nil {
		return err
	}
	if cfg.Token.Signing == utils.SigningNone {
		log.Warn().Msg("session tokens are unsigned (TOKEN_SIGNING=none)")
	}

	rentals, movies, closeStores, err := stores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	var events service.EventPublisher = service.NoopPublisher{}
	if cfg.Queue.Enabled {
		events = service.RabbitPublisher{URL: cfg.Queue.URL, Queue: cfg.Queue.Queue}
		consumer := queue.Consumer{URL: cfg.Queue.URL, Queue: cfg.Queue.Queue, Dir: cfg.Queue.LogDir}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Str("component", "queue").Err(err).Msg("consumer stopped")
			}
		}()
	}

	client := upstream.NewClient(cfg.Upstream.BaseURLs, cfg.Upstream.Timeout)
	catalog := service.NewCatalog(client, movies, cfg.APIKey, nil)
	searcher := service.NewSearcher(client, nil)
	profile := service.NewProfile(client, cfg.APIKey, cfg.Staff.Username, nil)
	ledger := service.NewLedger(rentals, catalog, events, nil)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).Str("uri", v.URI).Int("status", v.Status).
				Dur("latency", v.Latency).Msg("request")
			return nil
		},
	}))

	router.RegisterRoutes(e)
	api := router.API(e, tokens, middleware.NewTokenBucket(cfg.RateLimit, rdb))
	router.RegisterAuth(api, handler.NewAuthHandler(tokens, staff, profile, cfg.APIKey))
	router.RegisterCatalog(api, handler.NewMovieHandler(catalog), handler.NewSearchHandler(searcher), tokens,
		middleware.NewRedisCache(cfg.Cache, rdb))
	router.RegisterRentals(api, handler.NewRentHandler(ledger), tokens)
	router.RegisterUser(api, handler.NewUserHandler(profile))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("env", cfg.Env).Str("store", cfg.Store.Backend).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
