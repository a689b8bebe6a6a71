package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"licensegen/internal/barcode"
	"licensegen/internal/license/codes"
	"licensegen/internal/license/service"
	"licensegen/internal/platform/config"
	"licensegen/internal/platform/httpserver"
	"licensegen/internal/platform/logger"
	"licensegen/internal/platform/metrics"
	httptransport "licensegen/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/license.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	m := metrics.New(prometheus.DefaultRegisterer)
	tables := codes.NewTables()
	encoder := barcode.NewPDF417Encoder(cfg.Barcode)
	svc := service.New(tables, encoder, m, log)

	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	httptransport.New(svc, tables, log).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting licensegen", "addr", cfg.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err.Error())
		os.Exit(1)
	}
}
