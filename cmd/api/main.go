package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bobler41/EV-Parking-Simulation/internal/api"
	"github.com/bobler41/EV-Parking-Simulation/internal/config"
	"github.com/bobler41/EV-Parking-Simulation/internal/logger"
	"github.com/bobler41/EV-Parking-Simulation/internal/metrics"
	"github.com/bobler41/EV-Parking-Simulation/internal/runner"
	"github.com/bobler41/EV-Parking-Simulation/internal/simulation"
	"github.com/bobler41/EV-Parking-Simulation/internal/store"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("EVSIM_CONFIG"), "Path to YAML service config (optional)")
	flag.Parse()

	if err := run(*cfgPath); err != nil {
		logger.New("main").Errorf("main: %v", err)
		os.Exit(1)
	}
}

func run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Logging.Level)
	log := logger.New("api")

	st, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Errorf("main: store close: %v", err)
		}
	}()
	log.Infof("main: using %s store", cfg.Store.Driver)

	rec, err := metrics.NewPromRecorder(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache := runner.NewOutputCache(cfg.Runner.CacheTTL)
	go cache.RunPruner(ctx, 5*time.Minute)

	rn := runner.New(st, simulation.New(), runner.Options{
		Workers: cfg.Runner.Workers,
		Timeout: cfg.Runner.Timeout,
		Metrics: rec,
		Logger:  logger.New("runner"),
		Cache:   cache,
	})

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Deps{
		Store:       st,
		Runner:      rn,
		Logger:      log,
		ScenarioDir: cfg.Server.ScenarioDir,
		StaticDir:   cfg.Server.StaticDir,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("main: starting API server on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
	}

	log.Infof("main: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnf("main: shutdown: %v", err)
	}
	rn.Wait()
	return nil
}

func openStore(cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case "sqlite":
		st, err := store.NewSQLiteStore(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.DSN, err)
		}
		return st, nil
	default:
		return store.NewMemoryStore(), nil
	}
}
