package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	clientdist "github.com/vango-dev/anchor/client/dist"
	"github.com/vango-dev/anchor/internal/config"
	"github.com/vango-dev/anchor/internal/demo"
	aerrors "github.com/vango-dev/anchor/internal/errors"
	"github.com/vango-dev/anchor/pkg/hydrate"
	"github.com/vango-dev/anchor/pkg/live"
	"github.com/vango-dev/anchor/pkg/middleware"
	"github.com/vango-dev/anchor/pkg/reactive"
	"github.com/vango-dev/anchor/pkg/render"
	"github.com/vango-dev/anchor/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the application over HTTP",
		Long: `Start an HTTP server rendering the todo application.

Routes:
  /                   server-rendered page with hydration payload
  /_anchor/client.js  browser client applying live frames
  /live               WebSocket endpoint streaming tree mutations
  /metrics            Prometheus metrics
  /healthz            liveness probe

Examples:
  anchor serve
  anchor serve --port=8080
  anchor serve --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			// Apply command-line overrides
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd, cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from anchor.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from anchor.json)")

	return cmd
}

func runServe(cmd *cobra.Command, cfg *config.Config) error {
	logger := cfg.NewLogger(cmd.ErrOrStderr())

	out := cmd.OutOrStdout()
	printBanner(out)
	info(out, "http://%s", cfg.Address())
	info(out, "live:    %s", cfg.Server.LivePath)
	if cfg.Server.MetricsPath != "" {
		info(out, "metrics: %s", cfg.Server.MetricsPath)
	}

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           newServer(cfg, logger, prometheus.NewRegistry()).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return aerrors.New("E140").Wrap(err)
	case <-ctx.Done():
	}

	info(out, "Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return aerrors.New("E140").Wrap(err)
	}
	success(out, "Server stopped")
	return nil
}

// server holds what the HTTP handlers share.
type server struct {
	cfg      *config.Config
	logger   *slog.Logger
	app      *demo.App
	renderer *render.Renderer
	registry *prometheus.Registry
	metrics  *telemetry.Metrics
}

var _ live.Observer = (*telemetry.Metrics)(nil)

func newServer(cfg *config.Config, logger *slog.Logger, registry *prometheus.Registry) *server {
	return &server{
		cfg:    cfg,
		logger: logger,
		app:    app(cfg),
		renderer: render.NewRenderer(render.RendererConfig{
			LivePath:     cfg.Server.LivePath,
			ClientScript: clientdist.Path,
			Logger:       logger,
		}),
		registry: registry,
		metrics:  telemetry.NewMetrics(telemetry.WithRegistry(registry)),
	}
}

func (s *server) runtimeOptions() []reactive.Option {
	return append(s.cfg.RuntimeOptions(s.logger), reactive.WithObserver(s.metrics))
}

func (s *server) routes() http.Handler {
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	requests := middleware.NewMetrics(middleware.WithRegistry(s.registry))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.OpenTelemetry(middleware.WithRequestFilter(func(r *http.Request) bool {
		return r.URL.Path != "/healthz"
	})))
	r.Use(requests.Handler)

	r.Get("/", s.page)
	r.Get(clientdist.Path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(clientdist.ClientJS)
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle(s.cfg.Server.LivePath, live.NewHandler(s.app.Factory(),
		live.WithLogger(s.logger),
		live.WithObserver(s.metrics),
		live.WithSessionOptions(hydrate.WithRuntimeOptions(s.runtimeOptions()...)),
	))
	if s.cfg.Server.MetricsPath != "" {
		r.Handle(s.cfg.Server.MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

// page server-renders the application.
func (s *server) page(w http.ResponseWriter, r *http.Request) {
	res, err := s.renderer.SSR(s.app.Factory(), s.runtimeOptions()...)
	if err != nil {
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.RenderPage(&buf, render.PageData{
		Title:   s.app.Title(),
		Body:    res.Container,
		Payload: res.Payload,
	}); err != nil {
		s.logger.Error("page render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	if span := middleware.SpanFromContext(r.Context()); span != nil {
		span.SetAttributes(
			attribute.Int("anchor.page.bytes", buf.Len()),
			attribute.Int("anchor.page.signals", len(res.Payload.State.Signals)),
		)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
