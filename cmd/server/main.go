package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/cp25sy5-modjot/streamlinepay-forms/internal/adapters/grpc"
	"github.com/cp25sy5-modjot/streamlinepay-forms/internal/adapters/rest"
	"github.com/cp25sy5-modjot/streamlinepay-forms/internal/config"
	"github.com/cp25sy5-modjot/streamlinepay-forms/internal/pkg/grpcserver"
	"github.com/cp25sy5-modjot/streamlinepay-forms/internal/usecase"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(lvl)
	}

	// Adapters (infrastructure)
	txAPI := rest.NewTransactionsAPI(rest.NewClient(cfg.Transactions.BaseURL, cfg.Transactions.Timeout, logger.With().Str("api", "transactions").Logger()))
	userAPI := rest.NewUsersAPI(rest.NewClient(cfg.Users.BaseURL, cfg.Users.Timeout, logger.With().Str("api", "users").Logger()))

	// Application service (use cases)
	forms := usecase.NewFormController(txAPI, userAPI, logger.With().Str("component", "forms").Logger())

	// gRPC server (interface adapter)
	s := grpcserver.New(cfg.GRPCAddr, logger)
	grpc.RegisterFormServer(s.Server, grpc.NewFormService(forms, logger))

	// Initial fetch; a failure only sets the banner, views can Refresh later.
	loadCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if err := forms.Load(loadCtx); err != nil {
		logger.Warn().Err(err).Msg("initial load failed")
	}
	cancel()
	s.SetServing(true)

	// Start
	go func() {
		logger.Info().Str("addr", cfg.GRPCAddr).Msg("form service listening")
		if err := s.Start(); err != nil {
			logger.Fatal().Err(err).Msg("gRPC serve error")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop
	logger.Info().Msg("shutting down")
	s.Stop()
}
