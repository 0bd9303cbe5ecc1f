package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tailored-agentic-units/rfp/observability"
	"github.com/tailored-agentic-units/rfp/service"
	"github.com/tailored-agentic-units/rfp/transport"
)

func newServeCmd(g *globals) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the BidService over Connect RPC with Prometheus metrics",
		Long: `Starts an HTTP server exposing:

  /rfp.v1.BidService/Evaluate   evaluate one request (Connect, gRPC, gRPC-Web)
  /rfp.v1.BidService/GetBid     read back a stored bid
  /metrics                      Prometheus metrics
  /healthz                      liveness probe

The rate file is watched for changes while the server runs when
rates.watch is enabled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			logger, err := service.NewLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			metrics, err := observability.NewMetricsObserver("rfp", reg)
			if err != nil {
				return err
			}
			observer := observability.NewMultiObserver(observability.NewSlogObserver(logger), metrics)

			svc, err := g.open(cmd, cfg, service.WithObserver(observer))
			if err != nil {
				return err
			}
			defer svc.Close()

			return serve(cmd.Context(), cfg.Server.Addr, svc, observer, reg, logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}

func newMux(svc *service.Service, observer observability.Observer, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/"+transport.ServiceName+"/", transport.NewHandler(svc.Orchestrator(), svc.Lookup(), observer))
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

func serve(ctx context.Context, addr string, svc *service.Service, observer observability.Observer, gatherer prometheus.Gatherer, logger *slog.Logger) error {
	protocols := new(http.Protocols)
	protocols.SetHTTP1(true)
	protocols.SetUnencryptedHTTP2(true)

	srv := &http.Server{
		Addr:              addr,
		Handler:           newMux(svc, observer, gatherer),
		Protocols:         protocols,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return svc.WatchRates(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
