package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/crm-portal/api"
	"github.com/jrsteele09/crm-portal/internal/config"
	"github.com/jrsteele09/crm-portal/server"
	"github.com/jrsteele09/crm-portal/tokenstore/localstorage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running portal")
	}
	log.Info().Msg("Portal stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c.GetEnv())
	displayAppname(c.GetAppName())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	local, closeLocal, err := newLocalStorage(ctx, c)
	if err != nil {
		return err
	}
	defer closeLocal()

	deps := server.Deps{
		API:          api.NewClient(c.GetAPIBaseURL(), c.GetAPITimeout()),
		LocalStorage: local,
	}
	if clientID := c.GetGoogleClientID(); clientID != "" {
		deps.Google = server.NewGoogleVerifier(ctx, clientID)
	}

	handler, err := server.New(c, deps)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- listenAndServe(httpServer) }()

	select {
	case err := <-errCh:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

// newLocalStorage picks Redis when configured and an in-process map otherwise
func newLocalStorage(ctx context.Context, c config.Config) (localstorage.Repo, func(), error) {
	addr := c.GetRedisAddr()
	if addr == "" {
		log.Info().Msg("Using in-memory local storage")
		return localstorage.NewInMemoryRepo(), func() {}, nil
	}

	repo, err := localstorage.NewRedisRepo(ctx, localstorage.RedisConfig{
		Addr:     addr,
		Password: c.GetRedisPassword(),
		DB:       c.GetRedisDB(),
		Prefix:   c.GetRedisPrefix(),
		TTL:      c.GetDeviceCookieMaxAge(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("local storage: %w", err)
	}
	log.Info().Str("addr", addr).Msg("Using Redis local storage")
	return repo, func() {
		if err := repo.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}, nil
}

func setupLogging(env string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if env == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Portal listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
