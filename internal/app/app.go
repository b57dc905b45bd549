package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/uriz/internal/adapter/repository/memory"
	"github.com/vadimbarashkov/uriz/internal/config"
	"github.com/vadimbarashkov/uriz/internal/entity"
	"github.com/vadimbarashkov/uriz/internal/usecase"
	"github.com/vadimbarashkov/uriz/pkg/postgres"
	"golang.org/x/sync/errgroup"

	delivery "github.com/vadimbarashkov/uriz/internal/adapter/delivery/http"
	pgrepo "github.com/vadimbarashkov/uriz/internal/adapter/repository/postgres"
	redisrepo "github.com/vadimbarashkov/uriz/internal/adapter/repository/redis"
	pkgredis "github.com/vadimbarashkov/uriz/pkg/redis"
)

const serviceName = "uriz"

// urlRepository is the union of what the use cases need from a store.
type urlRepository interface {
	Exists(ctx context.Context, token string) (bool, error)
	GetForward(ctx context.Context, token string) (*entity.ShortURL, error)
	GetReverse(ctx context.Context, longURL string) (string, error)
	InsertForward(ctx context.Context, url *entity.ShortURL) error
	InsertReverse(ctx context.Context, idx *entity.ReverseIndex) error
	IncrementVisits(ctx context.Context, token string) error
}

func newLogger(env string) *httplog.Logger {
	opts := httplog.Options{
		LogLevel: slog.LevelDebug,
		Concise:  true,
		Tags: map[string]string{
			"env": env,
		},
	}

	if env == config.EnvProd {
		opts.JSON = true
		opts.Concise = false
		opts.LogLevel = slog.LevelInfo
	}

	return httplog.NewLogger(serviceName, opts)
}

func openRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (urlRepository, func() error, error) {
	const op = "app.openRepository"

	switch cfg.Storage {
	case config.StoragePostgres:
		version, err := postgres.RunMigrations(cfg.Postgres.MigrationsPath, cfg.Postgres.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("%s: failed to run migrations: %w", op, err)
		}
		logger.Info("migrations applied", slog.Uint64("version", uint64(version)))

		db, err := postgres.New(
			ctx,
			cfg.Postgres.DSN(),
			postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
			postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
			postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
			postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
			postgres.WithConnectRetries(cfg.Postgres.ConnectRetries),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: failed to connect to postgres: %w", op, err)
		}

		return pgrepo.NewURLRepository(db), db.Close, nil
	case config.StorageRedis:
		client, err := pkgredis.New(
			ctx,
			cfg.Redis.Addr(),
			pkgredis.WithPassword(cfg.Redis.Password),
			pkgredis.WithDB(cfg.Redis.DB),
			pkgredis.WithDialTimeout(cfg.Redis.DialTimeout),
			pkgredis.WithReadTimeout(cfg.Redis.ReadTimeout),
			pkgredis.WithWriteTimeout(cfg.Redis.WriteTimeout),
			pkgredis.WithPoolSize(cfg.Redis.PoolSize),
			pkgredis.WithConnectRetries(cfg.Redis.ConnectRetries),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: failed to connect to redis: %w", op, err)
		}

		return redisrepo.NewURLRepository(client), client.Close, nil
	default:
		return memory.NewURLRepository(), func() error { return nil }, nil
	}
}

func newHandler(cfg *config.Config, logger *httplog.Logger, urlRepo urlRepository) http.Handler {
	shortenUseCase := usecase.NewShortenUseCase(usecase.Config{
		DefaultTokenLength: cfg.Shortener.DefaultTokenLength,
		CollisionThreshold: cfg.Shortener.CollisionThreshold,
		MaxTokenLength:     cfg.Shortener.MaxTokenLength,
	}, urlRepo, logger.Logger)
	redirectUseCase := usecase.NewRedirectUseCase(urlRepo, logger.Logger)

	return delivery.NewRouter(logger, delivery.RouterConfig{
		BaseURL:  cfg.BaseURL,
		DocsPath: cfg.HTTPServer.DocsPath,
	}, shortenUseCase, redirectUseCase)
}

func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := newLogger(cfg.Env)

	urlRepo, closeRepo, err := openRepository(ctx, cfg, logger.Logger)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := closeRepo(); err != nil {
			logger.Error("failed to close storage", slog.Any("err", err))
		}
	}()

	logger.Info("storage ready", slog.String("storage", cfg.Storage))

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        newHandler(cfg, logger, urlRepo),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		logger.Info("starting server", slog.String("addr", server.Addr), slog.String("env", cfg.Env))

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
