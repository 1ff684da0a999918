package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/in/rest"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/out/sqlstore"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-account-ledger/pkg/config"
	"github.com/JoeShih716/go-account-ledger/pkg/database"
	"github.com/JoeShih716/go-account-ledger/pkg/logger"
)

const (
	serviceName    = "account-ledger"
	serviceVersion = "1.0.0"
)

func main() {
	// 1. 載入設定
	path := os.Getenv("LEDGER_CONFIG")
	if path == "" {
		path = "config/config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		bootLog := logger.New(logger.Service{Name: serviceName, Version: serviceVersion})
		bootLog.Fatal().Err(err).Str("path", path).Msg("failed to load config")
	}

	// 2. 初始化 Logger
	log := logger.NewWithConfig(cfg.Log, logger.Service{Name: serviceName, Version: serviceVersion})

	// 3. 初始化 Record Store
	store, closeStore, err := openStore(cfg.Store, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open record store")
	}
	defer closeStore()
	log.Info().Str("driver", cfg.Store.Driver).Msg("record store ready")

	// 4. 初始化 UseCase
	ledger := usecase.NewLedgerService(store, usecase.WithLogger(log))
	query := usecase.NewQueryFacade(store, ledger)

	// 5. 啟動 REST Server
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: rest.NewServer(ledger, query, log).Handler(),
	}
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting rest server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to serve")
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server exited")
}

// openStore 依設定建立 Record Store，回傳關閉函式
func openStore(cfg config.StoreConfig, log zerolog.Logger) (usecase.RecordStore, func(), error) {
	if cfg.Driver == config.StoreMemory {
		s, err := memory.Open(cfg.Memory.Journal, log)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close journal")
			}
		}, nil
	}

	client, err := database.NewClient(cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	s, err := sqlstore.Open(context.Background(), client, log)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return s, func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}, nil
}
