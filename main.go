package main

import (
	"fmt"
	"net/http"

	"github.com/fatali-fataliyev/finance_manager/api"
	"github.com/fatali-fataliyev/finance_manager/internal/config"
	"github.com/fatali-fataliyev/finance_manager/internal/ledger"
	"github.com/fatali-fataliyev/finance_manager/internal/storage"
	"github.com/fatali-fataliyev/finance_manager/logging"
	"github.com/rs/cors"
)

var corsConf = cors.New(cors.Options{
	AllowedOrigins: []string{"*"},
	AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	AllowedHeaders: []string{"Content-Type", api.TraceIDHeader},
	ExposedHeaders: []string{api.TraceIDHeader},
})

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("invalid config: %v\n", err)
		return
	}

	if err := logging.Init(logging.Options{Level: cfg.LogLevel, AppEnv: cfg.AppEnv, LogDir: cfg.LogDir}); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		return
	}

	logging.Logger.Info("application starting...")

	backend, err := storage.New(cfg)
	if err != nil {
		logging.Logger.Errorf("failed to initialize storage: %v", err)
		return
	}
	defer backend.Close()

	store, err := ledger.NewLedgerStore(backend)
	if err != nil {
		logging.Logger.Errorf("failed to open ledger: %v", err)
		return
	}
	if store.Degraded() {
		logging.Logger.Warnf("stored ledger on %s storage is unreadable, writes fail until it can be read", store.StorageType)
	}
	logging.Logger.Infof("ledger ready on %s storage", store.StorageType)

	handlerWithCors := corsConf.Handler(api.NewApi(store).Handler())

	logging.Logger.Infof("starting server on port: %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handlerWithCors); err != nil {
		logging.Logger.Errorf("failed to start server: %v", err)
		return
	}
}
