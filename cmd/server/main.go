package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tanvirgit07/TK-Anii-server/configs"
	"github.com/Tanvirgit07/TK-Anii-server/internal/auth"
	"github.com/Tanvirgit07/TK-Anii-server/internal/handlers"
	"github.com/Tanvirgit07/TK-Anii-server/internal/ledger"
	"github.com/Tanvirgit07/TK-Anii-server/internal/logger"
	"github.com/Tanvirgit07/TK-Anii-server/internal/routes"
	"github.com/Tanvirgit07/TK-Anii-server/internal/seed"
	"github.com/Tanvirgit07/TK-Anii-server/internal/store"
	"go.uber.org/zap"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	configs.LoadConfig()

	db := store.NewDB(configs.AppConfig.DB.DSN)
	store.Migrate(db)
	if configs.AppConfig.Seed.Enabled {
		seed.Run(db, configs.AppConfig.Seed.PIN)
	}

	st := store.NewPostgresStore(db)

	authHandler := &auth.Handler{Store: st}
	apiHandler := &handlers.Handler{
		Ledger:  ledger.NewService(st),
		CashIn:  ledger.NewCashInWorkflow(st),
		History: ledger.NewHistory(st),
		Store:   st,
	}

	router := routes.NewRoutes(authHandler, apiHandler)

	srv := &http.Server{
		Addr:         configs.AppConfig.Server.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Log.Error("db close skipped, reason:", zap.Error(err))
	} else {
		sqlDB.Close()
		logger.Log.Info("db closed")
	}

	logger.Log.Info("server stopped")
}
