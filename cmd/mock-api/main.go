package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/logger"
	"bookshelf/internal/mockapi"
	"bookshelf/pkg/database"
	"bookshelf/pkg/utils"
)

func main() {
	utils.LoadEnvFile()
	cfg := utils.LoadMockAPIConfig()
	log := logger.New(logger.Config{Level: logger.ParseLevel(cfg.LogLevel)})

	dbCfg := database.DefaultConfig()
	if cfg.DBPath != "" {
		dbCfg.Path = cfg.DBPath
	}
	db, err := database.Open(dbCfg)
	if err != nil {
		log.Error("open db failed", "path", dbCfg.Path, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo, err := mockapi.NewRepo(db)
	if err != nil {
		log.Error("db migrate failed", "error", err)
		os.Exit(1)
	}

	gin.SetMode(gin.ReleaseMode)
	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mockapi.NewRouter(repo, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("mock API listening", "addr", cfg.Addr, "db", dbCfg.Path)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		log.Error("server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", "error", err)
	}
	log.Info("server stopped")
}
