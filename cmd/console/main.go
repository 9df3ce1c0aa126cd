package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/inkwell-press/console/pkg/apiclient"
	"github.com/inkwell-press/console/pkg/async"
	"github.com/inkwell-press/console/pkg/config"
	"github.com/inkwell-press/console/pkg/gateway"
	"github.com/inkwell-press/console/pkg/observability"
	"github.com/inkwell-press/console/pkg/routes"
	"github.com/inkwell-press/console/pkg/session"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	var (
		registry *prometheus.Registry
		metrics  *observability.Metrics
	)
	if cfg.Observability.MetricsEnabled {
		registry = prometheus.NewRegistry()
		metrics = observability.NewMetrics(registry)
	}

	clientOpts := []apiclient.Option{
		apiclient.WithLogger(logger),
		apiclient.WithTimeout(cfg.Backend.Timeout),
	}
	if metrics != nil {
		clientOpts = append(clientOpts, apiclient.WithMetrics(metrics))
	}
	if cfg.Observability.TracingEnabled {
		clientOpts = append(clientOpts, apiclient.WithTracing())
	}
	client, err := apiclient.New(cfg.Backend.URL, clientOpts...)
	if err != nil {
		logger.WithError(err).Error("backend client setup failed")
		os.Exit(1)
	}

	table := routes.DefaultTable()
	if cfg.Routes.TablePath != "" {
		table, err = routes.LoadTable(cfg.Routes.TablePath)
		if err != nil {
			logger.WithError(err).Error("route table load failed")
			os.Exit(1)
		}
	}
	set := routes.NewSet(table)

	manager := session.NewManager(session.Options{
		API:             client,
		Routes:          set,
		Logger:          logger,
		Metrics:         metrics,
		RenewalInterval: cfg.Session.RenewalInterval,
	})
	defer manager.Close()
	client.SetTokenSource(manager.TokenSource())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Routes.Watch {
		watcher, err := routes.Watch(cfg.Routes.TablePath, set, logger)
		if err != nil {
			logger.WithError(err).Error("route table watch failed")
			os.Exit(1)
		}
		defer watcher.Close()
	}

	// Resume any previous session in the background so the first page
	// load does not pay for the refresh round trip.
	async.SafeGoNoError(ctx, logger, 15*time.Second, "session warmup", func(ctx context.Context) {
		manager.Bootstrap(ctx, "/admin")
	})

	server := &http.Server{
		Addr: net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: gateway.NewServer(gateway.Options{
			Manager:  manager,
			Client:   client,
			Routes:   set,
			Logger:   logger,
			Metrics:  metrics,
			Registry: registry,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", server.Addr).Info("console listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("server failed")
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("shutdown incomplete")
		}
	}
}
