package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markusressel/steer2go/internal/api"
	"github.com/markusressel/steer2go/internal/configuration"
	"github.com/markusressel/steer2go/internal/control"
	"github.com/markusressel/steer2go/internal/persistence"
	"github.com/markusressel/steer2go/internal/statistics"
	"github.com/markusressel/steer2go/internal/telemetry"
	"github.com/markusressel/steer2go/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RunDaemon() {
	config := configuration.CurrentConfig

	registry := control.NewRegistry()

	var recorder *persistence.Recorder
	var sink control.EventSink
	if config.Journal.Enabled {
		pers := persistence.NewPersistence(config.DbPath)
		err := pers.Init()
		if err != nil {
			ui.Fatal("Error initializing persistence: %v", err)
		}
		recorder = persistence.NewRecorder(pers, config.Journal.BufferSize)
		sink = recorder
	}

	driver, err := control.NewDriverFromConfig(config, registry, sink)
	if err != nil {
		ui.Fatal("Unable to process controller configuration: %v", err)
	}
	for _, channel := range registry.Channels() {
		ui.Info("Controller '%s' drives %s (tuner: %t)", channel.GetId(), channel.GetOutput(), channel.HasTuner())
	}
	if driver.Throttle() == nil {
		ui.Info("Using constant throttle: %.2f", config.DefaultThrottle)
	}

	if config.Statistics.Enabled {
		statistics.Register(statistics.NewControllerCollector(registry))
		statistics.Register(statistics.NewTunerCollector(registry))
		statistics.Register(statistics.NewTelemetryCollector(driver))
		if recorder != nil {
			statistics.Register(statistics.NewJournalCollector(recorder))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		// === telemetry
		server := telemetry.NewServer(config.Telemetry, driver)
		g.Add(func() error {
			return server.Run(ctx)
		}, func(err error) {
			if err != nil {
				ui.Warning("Error stopping telemetry server: %v", err)
			} else {
				ui.Info("Telemetry server stopped.")
			}
		})
	}
	if recorder != nil {
		// === trial journal
		g.Add(func() error {
			return recorder.Run(ctx)
		}, func(err error) {
			if err != nil {
				ui.Warning("Error stopping journal: %v", err)
			} else {
				ui.Info("Journal stopped, %d events recorded, %d dropped.", recorder.Recorded(), recorder.Dropped())
			}
		})
	}
	if config.Statistics.Enabled {
		// === Prometheus Exporter
		g.Add(func() error {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			return serveHttp(ctx, "statistics", config.Statistics.Address(), mux)
		}, func(err error) {
			if err != nil {
				ui.Warning("Error stopping statistics server: %v", err)
			} else {
				ui.Info("Statistics server stopped.")
			}
		})
	}
	if config.Api.Enabled {
		// === REST API
		rest := api.CreateRestService(registry, prometheus.DefaultRegisterer)
		g.Add(func() error {
			return serveHttp(ctx, "api", config.Api.Address(), rest)
		}, func(err error) {
			if err != nil {
				ui.Warning("Error stopping api server: %v", err)
			} else {
				ui.Info("API server stopped.")
			}
		})
	}
	if config.Profiling.Enabled {
		// === pprof
		g.Add(func() error {
			return serveHttp(ctx, "profiling", config.Profiling.Address(), createProfilingHandler())
		}, func(err error) {
			if err != nil {
				ui.Warning("Error stopping profiling server: %v", err)
			} else {
				ui.Info("Profiling server stopped.")
			}
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("Received SIGTERM signal, exiting...")
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

// serveHttp serves handler on addr until ctx is cancelled
func serveHttp(ctx context.Context, name string, addr string, handler http.Handler) error {
	server := &http.Server{Addr: addr, Handler: handler}

	errs := make(chan error, 1)
	go func() {
		ui.Info("Starting %s server on %s", name, addr)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		ui.Error("Cannot start %s server (%v)", name, err)
		return err
	case <-ctx.Done():
		ui.Info("Stopping %s server...", name)
		timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer timeoutCancel()
		return server.Shutdown(timeoutCtx)
	}
}

func createProfilingHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}
