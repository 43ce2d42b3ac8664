package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tansive/keyboardserver/internal/common/logtrace"
	"github.com/tansive/keyboardserver/internal/keyboardserver/config"
	"github.com/tansive/keyboardserver/internal/keyboardserver/runner"
	"github.com/tansive/keyboardserver/internal/keyboardserver/server"
)

type cmdoptions struct {
	configFile string
	envFile    string
	skipLayout bool
}

func main() {
	logtrace.InitLogger("info")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	opt := parseFlags()

	if err := config.LoadEnvFile(opt.envFile); err != nil {
		return fmt.Errorf("loading env file: %w", err)
	}
	if opt.configFile == "" {
		opt.configFile = config.ConfigFileFromEnv()
	}
	if err := config.LoadConfig(opt.configFile); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Config()
	logtrace.InitLogger(cfg.LogLevel)

	slog := log.With().Str("state", "init").Logger()
	ctx = slog.WithContext(ctx)
	slog.Info().Str("config_file", opt.configFile).Msg("configuration loaded")
	if cfg.PINFromEnv {
		slog.Info().Msg("using custom PIN configuration")
	} else {
		slog.Info().Msg("using default PIN configuration")
	}

	services := server.NewServices(runner.New())
	if !opt.skipLayout {
		services.SetKeyboardLayout(ctx)
	}

	serverErrors, shutdownServer, err := createKeyboardServer(ctx, services)
	if err != nil {
		return fmt.Errorf("creating keyboard server: %w", err)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		slog.Info().Str("signal", sig.String()).Msg("shutdown signal received")
		shutdownServer()
	}

	slog.Info().Msg("server stopped")
	return nil
}

func createKeyboardServer(ctx context.Context, services *server.Services) (chan error, func(), error) {
	slog := log.With().Str("state", "init").Logger()
	s, err := server.CreateNewServer(services.Dispatcher)
	if err != nil {
		return nil, nil, fmt.Errorf("creating server: %w", err)
	}
	s.MountHandlers()

	srv := &http.Server{
		Addr:              config.Config().ListenAddr(),
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		slog.Info().Str("addr", srv.Addr).Msg("server started")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := func() {
		// Give outstanding requests 5 seconds to complete.
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error().Err(err).Msg("could not stop server gracefully")
			if err := srv.Close(); err != nil {
				slog.Error().Err(err).Msg("could not stop server")
			}
		}
	}

	return serverErrors, shutdown, nil
}

func parseFlags() *cmdoptions {
	opt := &cmdoptions{}
	flag.StringVar(&opt.configFile, "config", "", "path to the TOML config file (optional, defaults to $"+config.EnvConfigFile+")")
	flag.StringVar(&opt.envFile, "env-file", ".env", "path to a .env file loaded before reading the environment")
	flag.BoolVar(&opt.skipLayout, "skip-layout", false, "do not set the keyboard layout at startup")
	flag.Parse()
	return opt
}
