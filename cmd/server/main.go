package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v4/stdlib"

	"github.com/manzanit0/geocoding/pkg/env"
	"github.com/manzanit0/geocoding/pkg/geocode"
	"github.com/manzanit0/geocoding/pkg/logger"
	"github.com/manzanit0/geocoding/pkg/middleware"
	"github.com/manzanit0/geocoding/pkg/settings"
	"github.com/manzanit0/geocoding/pkg/whttp"
)

const ServiceName = "geocoding"

func init() {
	logger.InitGlobalSlog(ServiceName, false)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server shutdown abruptly", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("server exited")
}

func run(ctx context.Context) error {
	s, closeSettings, err := newSettings(ctx)
	if err != nil {
		return fmt.Errorf("create settings: %w", err)
	}
	defer closeSettings()

	geocoders, err := newGeocoders(s)
	if err != nil {
		return fmt.Errorf("create geocoders: %w", err)
	}

	r := gin.New()
	r.Use(middleware.TraceID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger(false))

	newController(geocoders, env.Provider()).register(r)

	port := env.Port()
	srv := &http.Server{Addr: fmt.Sprintf(":%s", port), Handler: r}

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	go func() {
		slog.Info(fmt.Sprintf("serving HTTP on :%s", port))

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server shutdown abruptly", "error", err.Error())
		} else {
			slog.Info("server shutdown gracefully")
		}

		stop()
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}

// newSettings reads the debug flag from the host database when one is
// configured, and from the environment otherwise.
func newSettings(ctx context.Context) (geocode.Settings, func(), error) {
	dsn := env.DatabaseURL()
	if dsn == "" {
		return settings.Env{}, func() {}, nil
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open db conn: %w", err)
	}

	closeDB := func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing db connection", "error", err.Error())
		}
	}

	if err := db.PingContext(ctx); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("unable to ping database: %w", err)
	}

	slog.Info("connected to the database successfully")

	store := settings.NewPgStore(db)
	if err := store.Migrate(ctx); err != nil {
		closeDB()
		return nil, nil, err
	}

	return store, closeDB, nil
}

func newGeocoders(s geocode.Settings) (map[string]geocode.Geocoder, error) {
	t := whttp.NewFetcher(whttp.NewLoggingClient(), env.UserAgent())
	opts := []geocode.Option{
		geocode.WithDiagnostics(s, logger.NewSink(nil)),
		geocode.WithAPIKey(env.GoogleAPIKey()),
	}

	geocoders := make(map[string]geocode.Geocoder)
	for _, name := range geocode.Providers() {
		g, err := geocode.New(name, t, opts...)
		if err != nil {
			return nil, err
		}

		geocoders[name] = g
	}

	return geocoders, nil
}
